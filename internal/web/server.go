package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also makes the
// service broadcast rendered board fragments to SSE subscribers.
func NewServer(s *app.Service, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	h := &handlers{svc: s, tpl: loadTemplates(), log: log}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Get("/state", h.state)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/undo", h.undo)
		r.Get("/events", h.events)
		r.Get("/ws", h.stream)
	})
	r.Get("/records", h.records)
	r.Get("/records/{id}", h.record)
	return r
}
