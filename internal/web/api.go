package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

type cellResponse struct {
	Kind  string `json:"kind,omitempty"`
	Owner string `json:"owner,omitempty"`
}

type scoreResponse struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

type remainingResponse struct {
	Volatile int `json:"volatile"`
	Immune   int `json:"immune"`
}

type stateResponse struct {
	ID        string            `json:"id"`
	Turn      string            `json:"turn"`
	Over      bool              `json:"over"`
	Winner    string            `json:"winner,omitempty"`
	Score     scoreResponse     `json:"score"`
	Remaining remainingResponse `json:"remaining"`
	Moves     int               `json:"moves"`
	Legal     [][2]int          `json:"legal"`
	Board     [][]cellResponse  `json:"board"`
}

func newStateResponse(gs app.GameState) stateResponse {
	g := gs.Game
	over := g.IsOver()
	first, second := g.Score()
	rem := g.Current().Remaining()
	resp := stateResponse{
		ID:        gs.ID,
		Turn:      g.Turn().String(),
		Over:      over,
		Score:     scoreResponse{First: first, Second: second},
		Remaining: remainingResponse{Volatile: rem.Volatile, Immune: rem.Immune},
		Moves:     g.MoveCount(),
		Legal:     [][2]int{},
	}
	if over {
		resp.Winner = g.Winner().String()
	} else {
		for _, p := range g.LegalMoves() {
			resp.Legal = append(resp.Legal, [2]int{p.Row, p.Col})
		}
	}
	grid := g.Grid()
	resp.Board = make([][]cellResponse, domain.Size)
	for r := range grid {
		resp.Board[r] = make([]cellResponse, domain.Size)
		for c, cell := range grid[r] {
			if !cell.Empty() {
				resp.Board[r][c] = cellResponse{Kind: cell.Kind.String(), Owner: cell.Owner.String()}
			}
		}
	}
	return resp
}

type moveResponse struct {
	Side     string   `json:"side"`
	Kind     string   `json:"kind"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Captured [][2]int `json:"captured"`
}

type recordResponse struct {
	ID          string         `json:"id"`
	GameID      string         `json:"gameId"`
	First       string         `json:"first"`
	Second      string         `json:"second"`
	Winner      string         `json:"winner"`
	FirstScore  int            `json:"firstScore"`
	SecondScore int            `json:"secondScore"`
	CreatedAt   time.Time      `json:"createdAt"`
	Moves       []moveResponse `json:"moves,omitempty"`
}

func newRecordResponse(rec app.Record, withMoves bool) recordResponse {
	resp := recordResponse{
		ID:          rec.ID,
		GameID:      rec.GameID,
		First:       string(rec.Setup.First),
		Second:      string(rec.Setup.Second),
		Winner:      rec.Winner.String(),
		FirstScore:  rec.FirstScore,
		SecondScore: rec.SecondScore,
		CreatedAt:   rec.CreatedAt,
	}
	if !withMoves {
		return resp
	}
	resp.Moves = make([]moveResponse, 0, len(rec.Moves))
	for _, m := range rec.Moves {
		mr := moveResponse{
			Side:     m.Disc.Owner.String(),
			Kind:     m.Disc.Kind.String(),
			Row:      m.Position.Row,
			Col:      m.Position.Col,
			Captured: make([][2]int, 0, len(m.Captured)),
		}
		for _, p := range m.Captured {
			mr.Captured = append(mr.Captured, [2]int{p.Row, p.Col})
		}
		resp.Moves = append(resp.Moves, mr)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(*gs))
}

func (h *handlers) records(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = v
	}
	recs, err := h.svc.Records(r.Context(), limit)
	if err != nil {
		h.log.Error("list records", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newRecordResponse(rec, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) record(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, app.ErrRecordNotFound):
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	case err != nil:
		h.log.Error("find record", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to load record")
		return
	}
	writeJSON(w, http.StatusOK, newRecordResponse(rec, true))
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
