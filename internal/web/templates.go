package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"sideName": func(s domain.Side) string {
			switch s {
			case domain.First:
				return "Player 1"
			case domain.Second:
				return "Player 2"
			default:
				return "Nobody"
			}
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .Board}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const indexTemplate = `<h1>Othello</h1>
<form action="/game" method="post">
  <label>Player 1
    <select name="first">{{range .}}<option value="{{.}}">{{.}}</option>{{end}}</select>
  </label>
  <label>Player 2
    <select name="second">{{range .}}<option value="{{.}}">{{.}}</option>{{end}}</select>
  </label>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">
    {{if .Over}}Game over. Winner: {{sideName .Winner}}{{else}}{{sideName .Turn}} to move{{end}}
    ({{.FirstScore}} - {{.SecondScore}})
  </div>
  {{if not .Over}}
  <select id="kind" name="kind">
    <option value="plain">⬤ plain</option>
    <option value="volatile">💣 volatile ({{.Remaining.Volatile}})</option>
    <option value="immune">⭕ immune ({{.Remaining.Immune}})</option>
  </select>
  {{end}}
  {{range .Rows}}
  <div class="row">
    {{range .}}
      {{if .Legal}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" hx-include="#kind" method="post">
        <input type="hidden" name="r" value="{{.R}}">
        <input type="hidden" name="c" value="{{.C}}">
        <button type="submit" class="legal"></button>
      </form>
      {{else}}
      <span class="cell owner-{{.Owner}}">{{.Symbol}}</span>
      {{end}}
    {{end}}
  </div>
  {{end}}
  {{if .Undo}}
  <form hx-post="/game/{{.ID}}/undo" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Undo</button>
  </form>
  {{end}}
</div>
`

type cellView struct {
	R, C   int
	Symbol string
	Owner  int
	Legal  bool
}

type boardView struct {
	ID          string
	Rows        [][]cellView
	Turn        domain.Side
	Over        bool
	Winner      domain.Side
	FirstScore  int
	SecondScore int
	Remaining   domain.Allowance
	Undo        bool
	Error       string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	g := gs.Game
	legal := make(map[domain.Position]bool)
	over := g.IsOver()
	if !over {
		for _, p := range g.LegalMoves() {
			legal[p] = true
		}
	}
	grid := g.Grid()
	rows := make([][]cellView, domain.Size)
	for r := range rows {
		rows[r] = make([]cellView, domain.Size)
		for c := range rows[r] {
			cell := grid[r][c]
			v := cellView{R: r, C: c, Owner: int(cell.Owner), Legal: legal[domain.Pos(r, c)]}
			if !cell.Empty() {
				v.Symbol = cell.Kind.Symbol()
			}
			rows[r][c] = v
		}
	}
	first, second := g.Score()
	return boardView{
		ID:          gs.ID,
		Rows:        rows,
		Turn:        g.Turn(),
		Over:        over,
		Winner:      g.Winner(),
		FirstScore:  first,
		SecondScore: second,
		Remaining:   g.Current().Remaining(),
		Undo:        gs.Setup.First == app.Human && gs.Setup.Second == app.Human && g.MoveCount() > 0,
		Error:       errMsg,
	}
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	// Generate UUIDv4 for player ID
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
	return v
}
