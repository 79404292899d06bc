package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/app"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

// SQLiteRecordRepository is an app.Repository backed by SQLite.
type SQLiteRecordRepository struct {
	db *sql.DB
}

func NewSQLiteRecordRepository(db *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db}
}

// moveRow is the JSON shape of one move in the moves column.
type moveRow struct {
	Side     string   `json:"side"`
	Kind     string   `json:"kind"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Captured [][2]int `json:"captured"`
}

// Save inserts a record.
func (r *SQLiteRecordRepository) Save(ctx context.Context, rec app.Record) error {
	if r.db == nil {
		return errors.New("sqlite record repository: db is nil")
	}

	const query = `
INSERT INTO game_records (
    id, game_id, first_controller, second_controller, winner, first_score, second_score, moves, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	moves, err := encodeMoves(rec.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}

	if _, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.GameID,
		string(rec.Setup.First),
		string(rec.Setup.Second),
		rec.Winner.String(),
		rec.FirstScore,
		rec.SecondScore,
		moves,
		rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert game record: %w", err)
	}

	return nil
}

// FindByID returns the record with the given id.
func (r *SQLiteRecordRepository) FindByID(ctx context.Context, id string) (app.Record, error) {
	const query = `
SELECT id, game_id, first_controller, second_controller, winner, first_score, second_score, moves, created_at
FROM game_records
WHERE id = ?
`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanRecord(row)
}

// ListRecent returns records by descending creation time.
func (r *SQLiteRecordRepository) ListRecent(ctx context.Context, limit int) ([]app.Record, error) {
	const query = `
SELECT id, game_id, first_controller, second_controller, winner, first_score, second_score, moves, created_at
FROM game_records
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]app.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func scanRecord(scanner interface {
	Scan(dest ...any) error
}) (app.Record, error) {
	var (
		rec           app.Record
		first, second string
		winner        string
		moves         string
	)

	if err := scanner.Scan(
		&rec.ID,
		&rec.GameID,
		&first,
		&second,
		&winner,
		&rec.FirstScore,
		&rec.SecondScore,
		&moves,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.Record{}, app.ErrRecordNotFound
		}
		return app.Record{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Setup = app.Setup{First: app.Controller(first), Second: app.Controller(second)}
	rec.Winner = parseSide(winner)

	decoded, err := decodeMoves(moves)
	if err != nil {
		return app.Record{}, fmt.Errorf("decode moves: %w", err)
	}
	rec.Moves = decoded
	rec.CreatedAt = rec.CreatedAt.UTC()

	return rec, nil
}

func encodeMoves(moves []domain.Move) (string, error) {
	rows := make([]moveRow, len(moves))
	for i, m := range moves {
		captured := make([][2]int, len(m.Captured))
		for j, p := range m.Captured {
			captured[j] = [2]int{p.Row, p.Col}
		}
		rows[i] = moveRow{
			Side:     m.Disc.Owner.String(),
			Kind:     m.Disc.Kind.String(),
			Row:      m.Position.Row,
			Col:      m.Position.Col,
			Captured: captured,
		}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMoves(raw string) ([]domain.Move, error) {
	var rows []moveRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, err
	}
	moves := make([]domain.Move, len(rows))
	for i, row := range rows {
		kind, err := domain.ParseKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		captured := make([]domain.Position, len(row.Captured))
		for j, c := range row.Captured {
			captured[j] = domain.Pos(c[0], c[1])
		}
		moves[i] = domain.Move{
			Disc:     domain.Cell{Kind: kind, Owner: parseSide(row.Side)},
			Position: domain.Pos(row.Row, row.Col),
			Captured: captured,
		}
	}
	return moves, nil
}

func parseSide(s string) domain.Side {
	switch s {
	case domain.First.String():
		return domain.First
	case domain.Second.String():
		return domain.Second
	}
	return domain.None
}
