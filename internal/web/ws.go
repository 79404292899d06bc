package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	// Same-origin checks are left to the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stream pushes the JSON state of a game to a websocket client: once on
// connect and again after every change. Incoming messages are ignored.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	// the read loop only notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		gs, ok := h.svc.Get(id)
		if !ok {
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(newStateResponse(*gs)); err != nil {
			h.log.Debug("websocket write", zap.String("game_id", id), zap.Error(err))
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case _, ok := <-ch:
			if !ok || !send() {
				return
			}
		}
	}
}
