package engine

import (
	"errors"
	"fmt"
)

// ErrGameOver is returned by Engine.Move once the grid is terminal and the
// engine is configured to freeze.
var ErrGameOver = errors.New("engine: game over")

// State is the derived game state.
type State string

const (
	Playing State = "playing"
	Over    State = "over"
)

// Options controls the rule variations an Engine applies around the pure moves.
type Options struct {
	// Spawn4Prob is the chance a spawned tile is 4.
	Spawn4Prob float64

	// InitialTiles is how many tiles Reset spawns.
	InitialTiles int

	// SpawnOnNoop spawns a tile even when the move left the grid unchanged.
	SpawnOnNoop bool

	// FreezeWhenOver rejects moves with ErrGameOver once the grid is terminal.
	FreezeWhenOver bool
}

// DefaultOptions returns canonical 2048 rules.
func DefaultOptions() Options {
	return Options{
		Spawn4Prob:     DefaultSpawn4Prob,
		InitialTiles:   2,
		SpawnOnNoop:    false,
		FreezeWhenOver: true,
	}
}

// Result describes a completed Engine.Move.
type Result struct {
	Outcome
	Spawned  bool     `json:"spawned"`
	SpawnAt  Position `json:"spawn_at"`
	SpawnVal int      `json:"spawn_value,omitempty"`
	Over     bool     `json:"over"`
	// JustEnded is true only on the move that made the grid terminal.
	JustEnded bool `json:"just_ended"`
}

// Engine owns one grid and applies moves, spawns and resets to it.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	opts  Options
	rng   Rand
	grid  Grid
	score int
	moves int
}

// New creates an engine with an empty grid. Call Reset to start a game.
func New(opts Options, rng Rand) *Engine {
	if opts.InitialTiles < 0 {
		opts.InitialTiles = 0
	}
	return &Engine{opts: opts, rng: rng}
}

// Reset clears the grid and spawns the initial tiles.
func (e *Engine) Reset() {
	e.grid = Grid{}
	e.score = 0
	e.moves = 0
	for range e.opts.InitialTiles {
		e.spawn()
	}
}

// Restore replaces the current game with a saved grid and score.
func (e *Engine) Restore(g Grid, score int) {
	e.grid = g
	e.score = score
	e.moves = 0
}

// Move slides the grid in dir, spawns according to the options and reports
// whether the game has ended.
func (e *Engine) Move(dir Direction) (Result, error) {
	if e.opts.FreezeWhenOver && IsTerminal(e.grid) {
		return Result{Outcome: Outcome{Grid: e.grid}, Over: true}, ErrGameOver
	}

	out, err := Move(e.grid, dir)
	if err != nil {
		return Result{Outcome: Outcome{Grid: e.grid}}, fmt.Errorf("move %d: %w", int(dir), err)
	}

	wasOver := IsTerminal(e.grid)
	e.grid = out.Grid
	e.score += out.Score
	e.moves++

	res := Result{Outcome: out}
	if out.Changed || e.opts.SpawnOnNoop {
		if pos, ok := e.spawn(); ok {
			res.Spawned = true
			res.SpawnAt = pos
			res.SpawnVal = e.grid[pos.Row][pos.Col]
		}
	}

	res.Grid = e.grid
	res.Over = IsTerminal(e.grid)
	res.JustEnded = res.Over && !wasOver
	return res, nil
}

func (e *Engine) spawn() (Position, bool) {
	g, pos, ok := Spawn(e.grid, e.rng, e.opts.Spawn4Prob)
	e.grid = g
	return pos, ok
}

// SetSpawn4Prob changes the 4-tile probability for future spawns.
func (e *Engine) SetSpawn4Prob(p float64) {
	e.opts.Spawn4Prob = p
}

// Grid returns a copy of the current grid.
func (e *Engine) Grid() Grid { return e.grid }

// Score returns the accumulated merge score.
func (e *Engine) Score() int { return e.score }

// Moves returns the number of accepted moves since Reset.
func (e *Engine) Moves() int { return e.moves }

// Options returns the rules this engine applies.
func (e *Engine) Options() Options { return e.opts }

// State derives Playing or Over from the grid.
func (e *Engine) State() State {
	if IsTerminal(e.grid) {
		return Over
	}
	return Playing
}
