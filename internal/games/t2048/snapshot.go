package t2048

import "github.com/vovakirdan/tui-2048/internal/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string // "campaign" or "endless"
	Level   int    // Current level (1-indexed), 0 for endless
	Target  int    // Current target tile value
	Score   int
	Moves   int
	Board   engine.Grid
	MaxTile int
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	}

	grid := g.eng.Grid()
	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Level:   g.Level(),
		Target:  g.currentTarget,
		Score:   g.eng.Score(),
		Moves:   g.eng.Moves(),
		Board:   grid,
		MaxTile: engine.MaxTile(grid),
		State:   state,
	}
}
