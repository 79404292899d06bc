package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService()
	h := NewServer(s, nil)
	return s, h
}

func newHumanGame(t *testing.T, s *app.Service) *app.GameState {
	t.Helper()
	gs, err := s.CreateGame(context.Background(), app.Setup{First: app.Human, Second: app.Human})
	if err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}
	return gs
}

func postForm(h http.Handler, path, playerID string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if playerID != "" {
		req.AddCookie(&http.Cookie{Name: "player_id", Value: playerID})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
		t.Fatalf("index should contain create form; got body: %q", body)
	}
	if !strings.Contains(body, "greedy") || !strings.Contains(body, "random") {
		t.Fatalf("index should offer automated players; got body: %q", body)
	}
}

func TestCreateRedirectsToGame(t *testing.T) {
	svc, h := newTestServer(t)
	req := httptest.NewRequest("POST", "/game", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := rr.Result().Header.Get("Location")
	if !strings.HasPrefix(loc, "/game/") {
		t.Fatalf("expected redirect to /game/{id}, got %q", loc)
	}
	gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
	if !ok || gs.Setup.First != app.Human || gs.Setup.Second != app.Human {
		t.Fatalf("expected a human vs human game behind %q", loc)
	}
}

func TestCreateWithControllers(t *testing.T) {
	svc, h := newTestServer(t)
	rr := postForm(h, "/game", "", url.Values{"first": {"human"}, "second": {"greedy"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	gs, ok := svc.Get(strings.TrimPrefix(rr.Result().Header.Get("Location"), "/game/"))
	if !ok || gs.Setup.Second != app.Greedy {
		t.Fatalf("expected greedy second player")
	}

	rr = postForm(h, "/game", "", url.Values{"first": {"minimax"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown controller, got %d", rr.Code)
	}
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)

	req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var playerID string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "player_id" {
			playerID = c.Value
			break
		}
	}
	if playerID == "" {
		t.Fatalf("expected player_id cookie to be set")
	}
	latest, ok := svc.Get(gs.ID)
	if !ok || latest.Seats[0] != playerID {
		t.Fatalf("expected auto-claim of first seat; have %q pid=%q", latest.Seats, playerID)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
		t.Fatalf("expected SSE wiring in page; got body: %q", body)
	}
	// four legal opening moves are offered as buttons
	if n := strings.Count(body, "class=\"legal\""); n != 4 {
		t.Fatalf("expected 4 legal cells, got %d", n)
	}
}

func TestGamePageUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/game/missing", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")

	rr := postForm(h, "/game/"+gs.ID+"/join", "p2", url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "id=\"board\"") {
		t.Fatalf("expected board fragment, got %q", rr.Body.String())
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Seats[1] != "p2" {
		t.Fatalf("expected second seat for p2, got %q", latest.Seats)
	}
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")
	svc.Join(gs.ID, "p2")

	rr := postForm(h, "/game/"+gs.ID+"/play", "p1", url.Values{"r": {"2"}, "c": {"4"}, "kind": {"volatile"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "id=\"board\"") {
		t.Fatalf("expected board fragment, got %q", rr.Body.String())
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Game.MoveCount() != 1 {
		t.Fatalf("expected move applied, moves=%d", latest.Game.MoveCount())
	}
	if latest.Game.At(domain.Pos(2, 4)).Kind != domain.Volatile {
		t.Fatalf("expected a volatile disc at (2, 4)")
	}
}

func TestPlayEndpointReportsErrors(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")
	svc.Join(gs.ID, "p2")
	path := "/game/" + gs.ID + "/play"

	cases := []struct {
		name     string
		playerID string
		form     url.Values
		want     string
	}{
		{"wrong turn", "p2", url.Values{"r": {"2"}, "c": {"3"}}, "Not your turn"},
		{"spectator", "p3", url.Values{"r": {"2"}, "c": {"4"}}, "You are a spectator"},
		{"illegal", "p1", url.Values{"r": {"0"}, "c": {"0"}}, "Illegal move"},
		{"bad coordinates", "p1", url.Values{"r": {"x"}, "c": {"0"}}, "Illegal move"},
		{"unknown kind", "p1", url.Values{"r": {"2"}, "c": {"4"}, "kind": {"laser"}}, "Unknown disc kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postForm(h, path, tc.playerID, tc.form)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Fatalf("expected %q in body, got %q", tc.want, rr.Body.String())
			}
		})
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Game.MoveCount() != 0 {
		t.Fatalf("rejected moves must not change the game")
	}

	rr := postForm(h, "/game/missing/play", "p1", url.Values{"r": {"2"}, "c": {"4"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rr.Code)
	}
}

func TestUndoEndpoint(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")
	svc.Join(gs.ID, "p2")

	rr := postForm(h, "/game/"+gs.ID+"/undo", "p1", url.Values{})
	if !strings.Contains(rr.Body.String(), "Nothing to undo") {
		t.Fatalf("expected nothing-to-undo message, got %q", rr.Body.String())
	}
	postForm(h, "/game/"+gs.ID+"/play", "p1", url.Values{"r": {"2"}, "c": {"4"}})
	rr = postForm(h, "/game/"+gs.ID+"/undo", "p2", url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Game.MoveCount() != 0 || latest.Game.Turn() != domain.First {
		t.Fatalf("undo not applied: moves=%d turn=%v", latest.Game.MoveCount(), latest.Game.Turn())
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	reqCreate := httptest.NewRequest("POST", "/game", nil)
	rrCreate := httptest.NewRecorder()
	h.ServeHTTP(rrCreate, reqCreate)
	loc := rrCreate.Result().Header.Get("Location")
	if loc == "" {
		t.Fatalf("missing redirect location")
	}
	req := httptest.NewRequest("GET", loc+"/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		io.Copy(io.Discard, rr.Result().Body)
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestBroadcastCarriesBoardFragment(t *testing.T) {
	svc, _ := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ch, unsub := svc.Subscribe(ctx, gs.ID)
	defer unsub()

	if _, err := svc.Play(ctx, gs.ID, "p1", 2, 4, domain.Plain); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	select {
	case b := <-ch:
		if !strings.Contains(string(b), "id=\"board\"") {
			t.Fatalf("expected board fragment, got %q", string(b))
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for broadcast")
	}
}

func TestStateEndpoint(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)

	req := httptest.NewRequest("GET", "/game/"+gs.ID+"/state", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var st stateResponse
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.ID != gs.ID || st.Turn != "first" || st.Over {
		t.Fatalf("unexpected state header: %+v", st)
	}
	if st.Score != (scoreResponse{First: 2, Second: 2}) {
		t.Fatalf("unexpected score: %+v", st.Score)
	}
	if len(st.Legal) != 4 {
		t.Fatalf("expected 4 legal moves, got %v", st.Legal)
	}
	if st.Board[3][3] != (cellResponse{Kind: "plain", Owner: "first"}) || st.Board[0][0] != (cellResponse{}) {
		t.Fatalf("unexpected board cells: %+v %+v", st.Board[3][3], st.Board[0][0])
	}
	if st.Remaining != (remainingResponse{Volatile: 3, Immune: 2}) {
		t.Fatalf("unexpected allowance: %+v", st.Remaining)
	}

	req = httptest.NewRequest("GET", "/game/missing/state", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRecordsEndpoints(t *testing.T) {
	svc, h := newTestServer(t)
	gs, err := svc.CreateGame(context.Background(), app.Setup{First: app.Greedy, Second: app.Greedy})
	if err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}

	req := httptest.NewRequest("GET", "/records", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var list []recordResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].GameID != gs.ID || list[0].First != "greedy" {
		t.Fatalf("unexpected records: %+v", list)
	}
	if len(list[0].Moves) != 0 {
		t.Fatalf("listing should not carry moves")
	}

	req = httptest.NewRequest("GET", "/records/"+list[0].ID, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var rec recordResponse
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rec.Moves) != gs.Game.MoveCount() {
		t.Fatalf("expected %d moves, got %d", gs.Game.MoveCount(), len(rec.Moves))
	}
	if rec.Winner != gs.Game.Winner().String() {
		t.Fatalf("winner %q, want %q", rec.Winner, gs.Game.Winner())
	}

	for path, want := range map[string]int{
		"/records/missing":  http.StatusNotFound,
		"/records?limit=-1": http.StatusBadRequest,
		"/records?limit=5":  http.StatusOK,
	} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rr.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("unexpected health response: %d %q", rr.Code, rr.Body.String())
	}
}

func TestWebSocketStreamsState(t *testing.T) {
	svc, h := newTestServer(t)
	gs := newHumanGame(t, svc)
	svc.Join(gs.ID, "p1")

	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var st stateResponse
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if st.ID != gs.ID || st.Moves != 0 {
		t.Fatalf("unexpected initial state: %+v", st)
	}

	if _, err := svc.Play(context.Background(), gs.ID, "p1", 2, 4, domain.Plain); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if st.Moves != 1 || st.Turn != "second" || st.Board[3][4].Owner != "first" {
		t.Fatalf("unexpected update: %+v", st)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for unknown game")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
