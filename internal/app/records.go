package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

// ErrRecordNotFound is returned when no finished game matches an id.
var ErrRecordNotFound = errors.New("record not found")

// Record is the persisted summary of a finished game.
type Record struct {
	ID          string
	GameID      string
	Setup       Setup
	Winner      domain.Side
	FirstScore  int
	SecondScore int
	Moves       []domain.Move
	CreatedAt   time.Time
}

// Repository stores finished games.
type Repository interface {
	// Save persists a new record.
	Save(ctx context.Context, rec Record) error
	// FindByID returns the record with the given id or ErrRecordNotFound.
	FindByID(ctx context.Context, id string) (Record, error)
	// ListRecent returns records newest first. A limit of 0 or less means the
	// implementation default.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// MemoryRecordRepository keeps records in process memory.
type MemoryRecordRepository struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{}
}

func (m *MemoryRecordRepository) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryRecordRepository) FindByID(_ context.Context, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

func (m *MemoryRecordRepository) ListRecent(_ context.Context, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]Record, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		out = append(out, m.records[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
