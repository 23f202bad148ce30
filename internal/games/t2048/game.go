package t2048

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Registry IDs for the two modes.
const (
	IDCampaign = "2048"
	IDEndless  = "2048_endless"
)

// Game implements the 2048 puzzle game on top of the grid engine.
type Game struct {
	mode Mode
	cfg  config.T2048Config
	rng  *rand.Rand
	eng  *engine.Engine
	dm   *config.DifficultyManager
	tick uint64

	startLevel    int // 1-based level Reset starts from, 0 for the first
	levelIndex    int // Current level (0-indexed)
	currentTarget int // Current tile target, 0 in endless

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int

	hint      engine.Direction
	showHint  bool
	lastMoves []engine.TileMove

	// Animation state
	animating      bool
	animationPhase AnimationPhase
	animationTicks int
	animations     []TileAnimation
	pendingNewTile *PendingTile
}

// New creates a new campaign mode 2048 game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new endless mode 2048 game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          IDCampaign,
		Title:       "2048",
		Description: "Reach each level's target tile",
	}, func() registry.Game {
		return New()
	})
	registry.Register(registry.GameInfo{
		ID:          IDEndless,
		Title:       "2048 (Endless)",
		Description: "Play until no move is left",
	}, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = Config()
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.dm = config.NewDifficultyManager(g.cfg.Difficulty)
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.showHint = false
	g.lastMoves = nil
	g.clearAnimation()

	g.levelIndex = 0
	if g.mode == ModeCampaign {
		if g.startLevel == 0 {
			g.startLevel = takeStartLevel()
		}
		if g.startLevel > 0 && g.startLevel <= LevelCount() {
			g.levelIndex = g.startLevel - 1
		}
	}

	g.eng = engine.New(engine.Options{
		Spawn4Prob:     g.cfg.Rules.Spawn4Prob,
		InitialTiles:   g.cfg.Rules.InitialTiles,
		SpawnOnNoop:    g.cfg.Rules.SpawnOnNoop,
		FreezeWhenOver: g.cfg.Rules.FreezeWhenOver,
	}, g.rng)
	g.loadLevel()
	g.eng.Reset()

	g.checkScreenSize()
}

// StartAt makes this game start (and restart) from a 1-based campaign level.
func (g *Game) StartAt(level int) {
	g.startLevel = level
}

// Restore resumes a saved game. Call after Reset.
func (g *Game) Restore(grid engine.Grid, score, level int) {
	if g.mode == ModeCampaign && level >= 1 && level <= LevelCount() {
		g.levelIndex = level - 1
		g.loadLevel()
	}
	g.eng.Restore(grid, score)
	g.gameOver = engine.IsTerminal(grid)
	g.clearAnimation()
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	if g.mode == ModeEndless {
		g.currentTarget = 0
		g.eng.SetSpawn4Prob(g.endlessSpawn4())
		return
	}

	level := GetLevel(g.levelIndex)
	if level == nil {
		level = GetLevel(LevelCount() - 1)
	}
	g.currentTarget = level.Target
	g.eng.SetSpawn4Prob(level.Spawn4)
}

func (g *Game) endlessSpawn4() float64 {
	score := 0
	if g.eng != nil {
		score = g.eng.Score()
	}
	return g.dm.Spawn4(g.cfg.Rules.Spawn4Prob, score, int(g.tick))
}

// Resize adapts the layout to a new terminal size without restarting the game.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	// Board (21 wide, 9 tall) plus HUD and footer
	minW := 25
	minH := 15
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.updateAnimation()

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform
	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		ended := false
		if g.levelClearTicks >= g.cfg.Rules.LevelClearTicks {
			ended = g.advanceLevel()
		}
		return core.StepResult{State: g.State(), Ended: ended}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionHint) {
		g.hint, g.showHint = engine.Hint(g.eng.Grid())
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	ended := g.processMove(dir)
	return core.StepResult{State: g.State(), Ended: ended}
}

// directionFor picks the first movement action in the frame.
func directionFor(in core.InputFrame) (engine.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.Up, true
	case in.Has(core.ActionDown):
		return engine.Down, true
	case in.Has(core.ActionLeft):
		return engine.Left, true
	case in.Has(core.ActionRight):
		return engine.Right, true
	}
	return 0, false
}

// processMove applies one move and reports whether it ended the game.
func (g *Game) processMove(dir engine.Direction) bool {
	res, err := g.eng.Move(dir)
	if errors.Is(err, engine.ErrGameOver) {
		// Restored terminal grid: the first attempted move raises the notice.
		g.gameOver = true
		return true
	}
	if err != nil {
		return false
	}

	if !res.Changed && !res.Spawned {
		return false
	}

	g.showHint = false
	g.lastMoves = res.Moves
	g.startSlideAnimation(res.Moves)
	if res.Spawned {
		g.pendingNewTile = &PendingTile{Pos: res.SpawnAt, Value: res.SpawnVal}
	}

	if g.mode == ModeEndless {
		g.eng.SetSpawn4Prob(g.endlessSpawn4())
	}

	if g.mode == ModeCampaign && g.currentTarget > 0 && engine.MaxTile(g.eng.Grid()) >= g.currentTarget {
		g.levelCleared = true
		g.levelClearTicks = 0
		return false
	}

	if res.Over {
		g.gameOver = true
		return res.JustEnded
	}
	return false
}

// advanceLevel moves to the next level, keeping board and score. It reports
// whether the carried-over board is already stuck, which ends the game.
func (g *Game) advanceLevel() bool {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= LevelCount()-1 {
		g.won = true
		return false
	}

	g.levelIndex++
	g.loadLevel()

	if engine.IsTerminal(g.eng.Grid()) {
		g.gameOver = true
		return true
	}
	return false
}

// Grid returns the current board.
func (g *Game) Grid() engine.Grid { return g.eng.Grid() }

// Score returns the current score.
func (g *Game) Score() int { return g.eng.Score() }

// Level returns the 1-based campaign level, 0 in endless mode.
func (g *Game) Level() int {
	if g.mode == ModeEndless {
		return 0
	}
	return g.levelIndex + 1
}

// Finished reports whether the game reached game over or campaign completion.
func (g *Game) Finished() bool { return g.gameOver || g.won }

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.eng != nil {
		score = g.eng.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}
