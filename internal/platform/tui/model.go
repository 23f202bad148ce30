package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// resumable is implemented by games whose progress can be saved and restored.
type resumable interface {
	Grid() engine.Grid
	Score() int
	Level() int
	Finished() bool
	Restore(grid engine.Grid, score, level int)
}

// resizable is implemented by games that can follow terminal resizes in place.
type resizable interface {
	Resize(width, height int)
}

// GameModel is the Bubble Tea model that runs one game mode.
type GameModel struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	config      core.RuntimeConfig
	player      string
	resume      *storage.SavedGame
	inputFrame  core.InputFrame
	gameState   core.GameState
	keyMapper   *KeyMapper
	quitting    bool
	backToMenu  bool
	scoreSaved  bool
	notice      string // One-shot message, shown while noticeTicks > 0
	noticeTicks int
	standalone  bool // Back quits the program instead of returning to a menu
}

// NewGameModel creates a new game model. resume may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string, resume *storage.SavedGame) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		player:     player,
		resume:     resume,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the game and the tick loop.
// Reset runs here because the model is copied by value into the program.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	if r, ok := m.game.(resumable); ok && m.resume != nil {
		r.Restore(m.resume.Grid, m.resume.Score, m.resume.Level)
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.saveProgress()
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.saveProgress()
			m.backToMenu = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil
		}
		// Esc while playing pauses first.
		m.inputFrame.Set(core.ActionPause)

	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}

	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize follows the terminal size without restarting the game.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizable); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.notice, m.noticeTicks = "", 0
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case result.Ended:
		m.notice = "No moves left!"
		m.noticeTicks = 2 * m.config.TickRate
	case m.noticeTicks > 0:
		m.noticeTicks--
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.recordFinish()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordFinish saves the final score once and drops any resumable save.
func (m *GameModel) recordFinish() {
	if m.store == nil {
		return
	}
	maxTile := 0
	if r, ok := m.game.(resumable); ok {
		maxTile = engine.MaxTile(r.Grid())
	}
	if m.gameState.Score > 0 {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.store.SaveScore(m.game.ID(), m.gameState.Score, maxTile)
	}
	//nolint:errcheck // Best-effort cleanup
	m.store.DeleteGame(m.player, m.game.ID())
}

// saveProgress stores an unfinished game so it can be resumed later.
func (m *GameModel) saveProgress() {
	r, ok := m.game.(resumable)
	if !ok || m.store == nil || m.player == "" || r.Finished() {
		return
	}
	//nolint:errcheck // Best-effort save on exit
	m.store.SaveGame(storage.SavedGame{
		Player: m.player,
		GameID: m.game.ID(),
		Level:  r.Level(),
		Score:  r.Score(),
		Grid:   r.Grid(),
	})
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tui2048", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	if m.noticeTicks > 0 {
		m.screen.DrawTextCentered(m.screen.Height()-1, m.notice)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// LoadResume fetches the saved game for player and mode.
// A missing save is not an error and yields nil.
func LoadResume(store *storage.Store, player, gameID string) (*storage.SavedGame, error) {
	if store == nil {
		return nil, nil
	}
	saved, err := store.LoadGame(player, gameID)
	if errors.Is(err, storage.ErrNoSavedGame) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Run plays a single game mode until the player quits or backs out.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string, resume *storage.SavedGame) error {
	model := NewGameModel(game, store, cfg, player, resume)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
