package web

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("web: session not found")

// ScoreGameID is the mode web games are recorded under.
const ScoreGameID = t2048.IDEndless

// SessionState is the JSON view of one session.
type SessionState struct {
	ID        string       `json:"id"`
	Board     [][]int      `json:"board"`
	Score     int          `json:"score"`
	Moves     int          `json:"moves"`
	MaxTile   int          `json:"max_tile"`
	State     engine.State `json:"state"`
	Over      bool         `json:"over"`
	CreatedAt time.Time    `json:"created_at"`

	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// MoveResult is returned after an accepted move.
type MoveResult struct {
	SessionState
	Direction engine.Direction  `json:"direction"`
	Changed   bool              `json:"changed"`
	Gained    int               `json:"gained"`
	Spawned   bool              `json:"spawned"`
	SpawnAt   *engine.Position  `json:"spawn_at,omitempty"`
	Tiles     []engine.TileMove `json:"tiles,omitempty"`
}

// Session is one web game. Its engine and access time are only touched with
// mu held.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	eng            *engine.Engine
	recorded       bool
	lastAccessedAt time.Time
}

func (s *Session) touchLocked() {
	s.lastAccessedAt = time.Now()
}

func (s *Session) stateLocked() SessionState {
	g := s.eng.Grid()
	st := s.eng.State()
	return SessionState{
		ID:        s.ID,
		Board:     g.Rows(),
		Score:     s.eng.Score(),
		Moves:     s.eng.Moves(),
		MaxTile:   engine.MaxTile(g),
		State:     st,
		Over:      st == engine.Over,
		CreatedAt: s.CreatedAt,

		LastAccessedAt: s.lastAccessedAt,
	}
}

// Manager owns the live web sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts   engine.Options
	seed   int64
	seeded atomic.Int64
	store  *storage.Store
	logger *log.Logger
}

// NewManager creates a manager whose sessions follow the given rules.
// A zero seed seeds each session from the clock. store may be nil.
func NewManager(rules config.T2048Rules, seed int64, store *storage.Store, logger *log.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts: engine.Options{
			Spawn4Prob:     rules.Spawn4Prob,
			InitialTiles:   rules.InitialTiles,
			SpawnOnNoop:    rules.SpawnOnNoop,
			FreezeWhenOver: rules.FreezeWhenOver,
		},
		seed:   seed,
		store:  store,
		logger: logger,
	}
}

func (m *Manager) newRand() *rand.Rand {
	if m.seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	// Deterministic per server run: the n-th session always gets seed+n.
	n := m.seeded.Add(1) - 1
	return rand.New(rand.NewSource(m.seed + n))
}

// Create starts a new game and returns its state.
func (m *Manager) Create() SessionState {
	now := time.Now()
	s := &Session{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		eng:            engine.New(m.opts, m.newRand()),
		lastAccessedAt: now,
	}
	s.eng.Reset()
	st := s.stateLocked()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "id", s.ID)
	return st
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// State returns the current state of a session.
func (m *Manager) State(id string) (SessionState, error) {
	s, err := m.get(id)
	if err != nil {
		return SessionState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.stateLocked(), nil
}

// List returns every session, newest first.
func (m *Manager) List() []SessionState {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	out := make([]SessionState, 0, len(all))
	for _, s := range all {
		s.mu.Lock()
		out = append(out, s.stateLocked())
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session deleted", "id", id)
	return nil
}

// Move applies one move. Engine errors (invalid direction, game over) are
// returned unchanged so callers can map them with errors.Is.
func (m *Manager) Move(id string, dir engine.Direction) (MoveResult, error) {
	s, err := m.get(id)
	if err != nil {
		return MoveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	res, err := s.eng.Move(dir)
	if err != nil {
		return MoveResult{SessionState: s.stateLocked()}, err
	}

	out := MoveResult{
		SessionState: s.stateLocked(),
		Direction:    dir,
		Changed:      res.Changed,
		Gained:       res.Score,
		Spawned:      res.Spawned,
		Tiles:        res.Moves,
	}
	if res.Spawned {
		at := res.SpawnAt
		out.SpawnAt = &at
	}
	if res.JustEnded {
		m.recordLocked(s)
	}
	return out, nil
}

// Reset restarts a session's game in place.
func (m *Manager) Reset(id string) (SessionState, error) {
	s, err := m.get(id)
	if err != nil {
		return SessionState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	s.eng.Reset()
	s.recorded = false
	return s.stateLocked(), nil
}

// Hint suggests a direction that changes the grid. ok is false when the game
// is over.
func (m *Manager) Hint(id string) (engine.Direction, bool, error) {
	s, err := m.get(id)
	if err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	dir, ok := engine.Hint(s.eng.Grid())
	return dir, ok, nil
}

// CleanupExpiredSessions removes sessions not accessed within maxAge and
// returns their IDs. Listing does not count as access.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := s.lastAccessedAt.Before(cutoff)
		s.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		m.logger.Info("expired sessions removed", "count", len(removed))
	}
	return removed
}

func (m *Manager) recordLocked(s *Session) {
	if s.recorded {
		return
	}
	s.recorded = true

	g := s.eng.Grid()
	m.logger.Info("game over", "id", s.ID, "score", s.eng.Score(), "max_tile", engine.MaxTile(g))
	if m.store == nil {
		return
	}
	if _, err := m.store.SaveScore(ScoreGameID, s.eng.Score(), engine.MaxTile(g)); err != nil {
		m.logger.Error("cannot save score", "id", s.ID, "err", err)
	}
}
