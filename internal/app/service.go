package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/strategy"
)

// Errors exposed by the service layer.
var (
	ErrNotFound          = errors.New("game not found")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotAPlayer        = errors.New("not a player")
	ErrUnknownController = errors.New("unknown controller")
)

// Controller says who moves for a side.
type Controller string

const (
	Human  Controller = "human"
	Greedy Controller = "greedy"
	Random Controller = "random"
)

// ParseController maps form input to a Controller; empty means Human.
func ParseController(s string) (Controller, error) {
	switch c := Controller(s); c {
	case "":
		return Human, nil
	case Human, Greedy, Random:
		return c, nil
	}
	return "", ErrUnknownController
}

// Setup names the controllers of both sides.
type Setup struct {
	First  Controller
	Second Controller
}

func (s Setup) of(side domain.Side) Controller {
	if side == domain.Second {
		return s.Second
	}
	return s.First
}

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    *domain.Game
	Setup   Setup
	Seats   [2]string
	Created time.Time
	Updated time.Time

	recorded bool
}

// SeatOf returns the side playerID sits on, or None.
func (gs *GameState) SeatOf(playerID string) domain.Side {
	switch {
	case playerID == "":
		return domain.None
	case gs.Seats[0] == playerID:
		return domain.First
	case gs.Seats[1] == playerID:
		return domain.Second
	}
	return domain.None
}

func (gs *GameState) snapshot() GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	return cp
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games, automated players, subscribers and finished-game
// records.
type Service struct {
	mu         sync.Mutex
	games      map[string]*GameState
	subs       map[string]map[*subscriber]struct{}
	render     func(GameState) []byte
	repo       Repository
	log        *zap.Logger
	ids        IDGenerator
	clock      Clock
	allowance  domain.Allowance
	strategies map[Controller]strategy.Strategy
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the broadcast payload renderer.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) {
		if renderer != nil {
			s.render = renderer
		}
	}
}

// WithRepository sets where finished games are stored.
func WithRepository(repo Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.repo = repo
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAllowance sets the special disc budget of every new player.
func WithAllowance(a domain.Allowance) Option {
	return func(s *Service) { s.allowance = a }
}

// WithRand seeds the random automated player.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.strategies[Random] = strategy.NewRandom(rng)
		}
	}
}

// NewService creates a service. Without options it keeps records in memory
// and logs nothing.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:     make(map[string]*GameState),
		subs:      make(map[string]map[*subscriber]struct{}),
		render:    func(GameState) []byte { return nil },
		repo:      NewMemoryRecordRepository(),
		log:       zap.NewNop(),
		ids:       uuidGenerator{},
		clock:     systemClock{},
		allowance: domain.DefaultAllowance,
		strategies: map[Controller]strategy.Strategy{
			Greedy: strategy.Greedy{},
			Random: strategy.NewRandom(rand.New(rand.NewSource(time.Now().UnixNano()))),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame registers a new game. Automated sides move right away, so a
// game between two automated players is already finished when returned.
func (s *Service) CreateGame(ctx context.Context, setup Setup) (*GameState, error) {
	if _, err := ParseController(string(setup.First)); err != nil {
		return nil, err
	}
	if _, err := ParseController(string(setup.Second)); err != nil {
		return nil, err
	}
	if setup.First == "" {
		setup.First = Human
	}
	if setup.Second == "" {
		setup.Second = Human
	}

	s.mu.Lock()
	now := s.clock.Now()
	g := domain.New(
		domain.NewPlayer(domain.First, setup.First == Human, s.allowance),
		domain.NewPlayer(domain.Second, setup.Second == Human, s.allowance),
	)
	gs := &GameState{ID: s.ids.NewID(), Game: g, Setup: setup, Created: now, Updated: now}
	s.games[gs.ID] = gs
	s.log.Info("game created",
		zap.String("game_id", gs.ID),
		zap.String("first", string(setup.First)),
		zap.String("second", string(setup.Second)),
	)
	s.advanceLocked(gs)
	rec, done := s.finishLocked(gs)
	cp := gs.snapshot()
	s.mu.Unlock()

	if done {
		s.save(ctx, rec)
	}
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.snapshot()
	return &cp, true
}

// Join seats the player on the first free human side, keeping an existing
// seat on rejoin. Spectators get None.
func (s *Service) Join(id, playerID string) (domain.Side, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.None, nil, ErrNotFound
	}
	side := gs.SeatOf(playerID)
	if side == domain.None && playerID != "" {
		for i, ctrl := range []Controller{gs.Setup.First, gs.Setup.Second} {
			if ctrl == Human && gs.Seats[i] == "" {
				gs.Seats[i] = playerID
				side = domain.Side(i + 1)
				break
			}
		}
	}
	gs.Updated = s.clock.Now()
	cp := gs.snapshot()
	return side, &cp, nil
}

// Play validates seat and turn, applies the move, lets automated sides
// answer, and broadcasts the new state.
func (s *Service) Play(ctx context.Context, id, playerID string, r, c int, kind domain.Kind) (*GameState, error) {
	return s.mutate(ctx, id, playerID, func(gs *GameState, seat domain.Side) error {
		if seat != gs.Game.Turn() {
			return ErrNotYourTurn
		}
		p := domain.Pos(r, c)
		captured := gs.Game.CaptureCount(p)
		if err := gs.Game.Play(p, kind); err != nil {
			return err
		}
		s.logMove(gs, seat, kind, p, captured)
		s.advanceLocked(gs)
		return nil
	})
}

// Undo reverts the last move. The engine only allows it when both sides are
// human.
func (s *Service) Undo(ctx context.Context, id, playerID string) (*GameState, error) {
	return s.mutate(ctx, id, playerID, func(gs *GameState, seat domain.Side) error {
		if err := gs.Game.Undo(); err != nil {
			return err
		}
		gs.recorded = false
		s.log.Info("move undone",
			zap.String("game_id", gs.ID),
			zap.Stringer("by", seat),
			zap.Int("moves", gs.Game.MoveCount()),
		)
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id, playerID string, fn func(*GameState, domain.Side) error) (*GameState, error) {
	var toDrop []*subscriber

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	seat := gs.SeatOf(playerID)
	if seat == domain.None {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if err := fn(gs, seat); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Updated = s.clock.Now()
	rec, done := s.finishLocked(gs)

	cp := gs.snapshot()
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	if done {
		s.save(ctx, rec)
	}

	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
	return &cp, nil
}

// advanceLocked plays automated sides until a human is to move or the game
// ends.
func (s *Service) advanceLocked(gs *GameState) {
	for !gs.Game.IsOver() {
		side := gs.Game.Turn()
		st, ok := s.strategies[gs.Setup.of(side)]
		if !ok {
			return
		}
		choice, ok := st.Choose(gs.Game)
		if !ok {
			return
		}
		captured := gs.Game.CaptureCount(choice.Position)
		if err := gs.Game.Play(choice.Position, choice.Kind); err != nil {
			s.log.Error("automated move rejected",
				zap.String("game_id", gs.ID),
				zap.Stringer("side", side),
				zap.Stringer("position", choice.Position),
				zap.Error(err),
			)
			return
		}
		s.logMove(gs, side, choice.Kind, choice.Position, captured)
	}
}

// finishLocked builds the record of a game that just ended.
func (s *Service) finishLocked(gs *GameState) (Record, bool) {
	if gs.recorded || !gs.Game.IsOver() {
		return Record{}, false
	}
	gs.recorded = true
	first, second := gs.Game.Score()
	s.log.Info("game over",
		zap.String("game_id", gs.ID),
		zap.Stringer("winner", gs.Game.Winner()),
		zap.Int("first", first),
		zap.Int("second", second),
	)
	return Record{
		ID:          s.ids.NewID(),
		GameID:      gs.ID,
		Setup:       gs.Setup,
		Winner:      gs.Game.Winner(),
		FirstScore:  first,
		SecondScore: second,
		Moves:       gs.Game.History(),
		CreatedAt:   s.clock.Now().UTC(),
	}, true
}

func (s *Service) save(ctx context.Context, rec Record) {
	if err := s.repo.Save(ctx, rec); err != nil {
		s.log.Error("save record", zap.String("game_id", rec.GameID), zap.Error(err))
	}
}

func (s *Service) logMove(gs *GameState, side domain.Side, kind domain.Kind, p domain.Position, captured int) {
	s.log.Debug("move applied",
		zap.String("game_id", gs.ID),
		zap.Stringer("side", side),
		zap.Stringer("kind", kind),
		zap.Stringer("position", p),
		zap.Int("captured", captured),
	)
}

// Records lists finished games, newest first.
func (s *Service) Records(ctx context.Context, limit int) ([]Record, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Record returns one finished game.
func (s *Service) Record(ctx context.Context, id string) (Record, error) {
	return s.repo.FindByID(ctx, id)
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. Unknown games get an already closed channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &subscriber{ch: make(chan []byte, 1)}
	if _, ok := s.games[id]; !ok {
		sub.close()
		return sub.ch, func() {}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
