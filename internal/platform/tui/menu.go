package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// menuEntry is one line of the mode menu.
type menuEntry int

const (
	entryContinue menuEntry = iota
	entryCampaign
	entryEndless
	entrySelectLevel
	entryScoreboard
	entryQuit
)

var entryLabels = map[menuEntry]string{
	entryContinue:    "Continue",
	entryCampaign:    "Campaign",
	entryEndless:     "Endless Mode",
	entrySelectLevel: "Select Level...",
	entryScoreboard:  "High Scores",
	entryQuit:        "Quit",
}

// Selection holds what the player picked in the menu.
type Selection struct {
	GameID string
	Level  int // 0 = start from the beginning, otherwise 1-based campaign level
	Resume *storage.SavedGame
}

// MenuModel lets the player choose a mode, a starting level, a saved game or the scoreboard.
type MenuModel struct {
	entries        []menuEntry
	saved          *storage.SavedGame
	cursor         int
	levelCursor    int
	inLevelSelect  bool
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	selection      *Selection
	openScoreboard bool
	quitting       bool
}

// NewMenuModel creates the mode menu. A saved game for player adds a Continue entry.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, player string) MenuModel {
	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}

	if saved := latestSave(store, player); saved != nil {
		m.saved = saved
		m.entries = append(m.entries, entryContinue)
	}
	m.entries = append(m.entries, entryCampaign, entryEndless, entrySelectLevel, entryScoreboard, entryQuit)
	return m
}

// latestSave returns the most recent save across both modes, or nil.
func latestSave(store *storage.Store, player string) *storage.SavedGame {
	if store == nil || player == "" {
		return nil
	}
	var best *storage.SavedGame
	for _, id := range []string{t2048.IDCampaign, t2048.IDEndless} {
		saved, err := LoadResume(store, player, id)
		if err != nil || saved == nil {
			continue
		}
		if best == nil || saved.UpdatedAt.After(best.UpdatedAt) {
			best = saved
		}
	}
	return best
}

// Init initializes the model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelect(action)
		}
		return m.handleModeSelect(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleModeSelect(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.entries)-1)
	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.entries)-1)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		switch m.entries[m.cursor] {
		case entryContinue:
			m.selection = &Selection{GameID: m.saved.GameID, Resume: m.saved}
			return m, tea.Quit
		case entryCampaign:
			m.selection = &Selection{GameID: t2048.IDCampaign}
			return m, tea.Quit
		case entryEndless:
			m.selection = &Selection{GameID: t2048.IDEndless}
			return m, tea.Quit
		case entrySelectLevel:
			m.inLevelSelect = true
			m.levelCursor = 0
		case entryScoreboard:
			m.openScoreboard = true
			return m, tea.Quit
		case entryQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) handleLevelSelect(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.levelCursor = core.Clamp(m.levelCursor-1, 0, t2048.LevelCount()-1)
	case MenuActionDown:
		m.levelCursor = core.Clamp(m.levelCursor+1, 0, t2048.LevelCount()-1)
	case MenuActionSelect:
		m.selection = &Selection{GameID: t2048.IDCampaign, Level: m.levelCursor + 1}
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the mode or level selection.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	if m.inLevelSelect {
		lines = append(lines, menuTitleStyle.Render("SELECT LEVEL"), "")
		targets := t2048.LevelTargets()
		for i, name := range t2048.LevelNames() {
			line := fmt.Sprintf("%2d. %s (Target: %d)", i+1, name, targets[i])
			lines = append(lines, m.cursorLine(line, i == m.levelCursor))
		}
	} else {
		lines = append(lines, menuTitleStyle.Render("2 0 4 8"), "", "Select game mode:", "")
		for i, e := range m.entries {
			label := entryLabels[e]
			switch e {
			case entryContinue:
				label = fmt.Sprintf("Continue (%s, score %d)", m.saved.GameID, m.saved.Score)
			case entryCampaign:
				label = fmt.Sprintf("Campaign (%d levels)", t2048.LevelCount())
			}
			lines = append(lines, m.cursorLine(label, i == m.cursor))
		}
	}

	lines = append(lines, "", menuHelpStyle.Render("Enter: Select  |  Tab: Scores  |  Esc: Back  |  Q: Quit"))

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MenuModel) cursorLine(label string, active bool) string {
	if active {
		return menuCursorStyle.Render("> " + label)
	}
	return "  " + label
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *Selection {
	return m.selection
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within the given width, ignoring ANSI styling.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
