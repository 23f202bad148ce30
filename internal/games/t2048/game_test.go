package t2048

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     42,
	}
}

func press(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

func TestDeterministicPlay(t *testing.T) {
	moves := []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft, core.ActionUp}

	play := func() Snapshot {
		g := NewEndless()
		g.Reset(testConfig())
		for _, a := range moves {
			g.Step(press(a))
			for range 20 {
				g.Step(core.NewInputFrame())
			}
		}
		return g.Snapshot()
	}

	first, second := play(), play()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed and input should replay identically (-first +second):\n%s", diff)
	}
	if first.Moves == 0 {
		t.Error("expected at least one accepted move")
	}
}

func TestResetSpawnsInitialTiles(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if n := engine.Count(g.Grid()); n != 2 {
		t.Errorf("fresh board has %d tiles, want 2", n)
	}
	if g.State().GameOver || g.Score() != 0 {
		t.Errorf("fresh game state = %+v", g.State())
	}
}

func TestCampaignProgression(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{64, 64, 0, 0}}, 0, 1)

	g.Step(press(core.ActionLeft))
	if !g.levelCleared {
		t.Fatal("merging into the target tile should clear the level")
	}
	if !g.State().Paused {
		t.Error("level clear pause should report Paused")
	}

	for range Config().Rules.LevelClearTicks {
		g.Step(core.NewInputFrame())
	}

	snap := g.Snapshot()
	if snap.Level != 2 || snap.Target != 256 {
		t.Errorf("after clear: level %d target %d, want 2/256", snap.Level, snap.Target)
	}
	if snap.Score != 128 {
		t.Errorf("score carried over = %d, want 128", snap.Score)
	}
	if snap.State != StatePlaying {
		t.Errorf("state = %s, want playing", snap.State)
	}
}

func TestCampaignFinalLevelWins(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	last := LevelCount()
	target := GetLevel(last - 1).Target
	g.Restore(engine.Grid{{target / 2, target / 2, 0, 0}}, 0, last)

	g.Step(press(core.ActionLeft))
	for range Config().Rules.LevelClearTicks {
		g.Step(core.NewInputFrame())
	}

	if snap := g.Snapshot(); snap.State != StateWin {
		t.Errorf("state = %s, want win", snap.State)
	}
	if !g.Finished() {
		t.Error("won campaign should be finished")
	}
}

func TestEndlessModeNoWin(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{8192, 0, 0, 0}}, 0, 0)

	g.Step(press(core.ActionDown))

	if g.levelCleared || g.won {
		t.Error("endless mode has no targets")
	}
	if g.Snapshot().Level != 0 {
		t.Error("endless snapshot should report level 0")
	}
}

func TestStepReportsEndedOnce(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}, 0, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.Ended || !res.State.GameOver {
		t.Fatalf("last move should end the game, got %+v", res)
	}

	res = g.Step(press(core.ActionRight))
	if res.Ended {
		t.Error("Ended must only be reported on the move that finished the game")
	}
	if g.Snapshot().State != StateGameOver {
		t.Errorf("state = %s, want game_over", g.Snapshot().State)
	}
}

func TestLevelClearOnStuckBoardReportsEnded(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	g.Restore(engine.Grid{
		{64, 64, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}, 0, 1)

	if res := g.Step(press(core.ActionLeft)); res.Ended {
		t.Fatal("the clearing move itself should not end the game")
	}
	if !g.levelCleared || !engine.IsTerminal(g.Grid()) {
		t.Fatalf("want a cleared level on a stuck board, got cleared=%v grid=%v", g.levelCleared, g.Grid())
	}

	ended := 0
	for range Config().Rules.LevelClearTicks + 10 {
		if g.Step(core.NewInputFrame()).Ended {
			ended++
		}
	}

	if ended != 1 {
		t.Errorf("Ended reported %d times, want exactly once", ended)
	}
	if snap := g.Snapshot(); snap.State != StateGameOver || snap.Level != 2 {
		t.Errorf("state = %s level %d, want game_over on level 2", snap.State, snap.Level)
	}
}

func TestRestoreTerminalGridIsOver(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}, 500, 0)

	if !g.State().GameOver || g.Score() != 500 {
		t.Errorf("restored state = %+v", g.State())
	}
}

func TestNoopMoveDoesNotSpawn(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	start := engine.Grid{{4, 2, 0, 0}}
	g.Restore(start, 0, 0)

	g.Step(press(core.ActionLeft))

	if g.Grid() != start {
		t.Errorf("no-op move changed the board: %v", g.Grid())
	}
	if g.Animating() {
		t.Error("no-op move should not animate")
	}
}

func TestPauseBlocksMoves(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	start := engine.Grid{{0, 0, 0, 2}}
	g.Restore(start, 0, 0)

	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionLeft))
	if g.Grid() != start {
		t.Error("moves must be ignored while paused")
	}

	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionLeft))
	if g.Grid()[0][0] != 2 {
		t.Errorf("move after unpause did not apply: %v", g.Grid())
	}
}

func TestAnimationLifecycle(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{0, 0, 0, 2}}, 0, 0)

	g.Step(press(core.ActionLeft))
	if !g.Animating() || g.animationPhase != PhaseSlide {
		t.Fatal("a changing move should start the slide animation")
	}
	if len(g.animations) != 1 || g.animations[0].From != (engine.Position{Row: 0, Col: 3}) {
		t.Errorf("animations = %+v", g.animations)
	}

	for range slideAnimationDuration {
		g.Step(core.NewInputFrame())
	}
	if g.animationPhase != PhasePop {
		t.Errorf("phase = %v, want pop after slide", g.animationPhase)
	}

	for range popAnimationDuration {
		g.Step(core.NewInputFrame())
	}
	if g.Animating() {
		t.Error("animation should be finished")
	}
}

func TestHintAction(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{0, 0, 0, 2}}, 0, 0)

	g.Step(press(core.ActionHint))
	if !g.showHint {
		t.Fatal("hint should be shown")
	}
	if g.hint != engine.Left {
		t.Errorf("hint = %s, want left", g.hint)
	}
}

func TestStartLevel(t *testing.T) {
	SetStartLevel(3)
	g := New()
	g.Reset(testConfig())

	if g.Level() != 3 || g.currentTarget != 512 {
		t.Errorf("level %d target %d, want 3/512", g.Level(), g.currentTarget)
	}
	if GetStartLevel() != 0 {
		t.Error("start level should be consumed by Reset")
	}
}

func TestSetConfigLevels(t *testing.T) {
	cfg := config.DefaultT2048Config()
	cfg.Levels = []config.T2048Level{{Name: "Only", Target: 32, Spawn4: 0.5}}
	SetConfig(cfg)
	t.Cleanup(func() { SetConfig(config.DefaultT2048Config()) })

	if LevelCount() != 1 {
		t.Fatalf("LevelCount() = %d, want 1", LevelCount())
	}
	if names := LevelNames(); names[0] != "Only" {
		t.Errorf("LevelNames() = %v", names)
	}

	g := New()
	g.Reset(testConfig())
	if g.Snapshot().Target != 32 {
		t.Errorf("target = %d, want 32", g.Snapshot().Target)
	}
}

func TestSnapshot(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	snap := g.Snapshot()

	if snap.Mode != "campaign" {
		t.Errorf("Snapshot Mode = %s, want campaign", snap.Mode)
	}
	if snap.Level != 1 {
		t.Errorf("Snapshot Level = %d, want 1", snap.Level)
	}
	if snap.Target != 128 {
		t.Errorf("Snapshot Target = %d, want 128", snap.Target)
	}
	if snap.State != StatePlaying {
		t.Errorf("Snapshot State = %s, want playing", snap.State)
	}
	if snap.MaxTile != engine.MaxTile(snap.Board) {
		t.Errorf("Snapshot MaxTile = %d", snap.MaxTile)
	}
}

func TestRenderShowsTiles(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{2048, 0, 0, 0}, {0, 16, 0, 0}}, 1234, 1)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Score: 1234", "2048", "16", "Level 1/"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}
}

func TestTileLabel(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{2, "2"},
		{2048, "2048"},
		{8192, "8192"},
		{16384, "16k"},
		{65536, "64k"},
		{131072, "128k"},
	}
	for _, tc := range tests {
		if got := tileLabel(tc.value); got != tc.want {
			t.Errorf("tileLabel(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestRenderWideTileKeepsBorder(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	g.Restore(engine.Grid{{0, 0, 0, 65536}}, 0, 0)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	boardX := (80 - (engine.Size*cellWidth + 1)) / 2
	rowY := 5 // HUD, top border, then the first row of cells
	if !strings.Contains(screen.Row(rowY), "64k") {
		t.Errorf("row %q should show the abbreviated tile", screen.Row(rowY))
	}
	if got := screen.Get(boardX+engine.Size*cellWidth, rowY); got != '│' {
		t.Errorf("right border = %q, want '│'", got)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	cfg := testConfig()
	cfg.ScreenW, cfg.ScreenH = 20, 10
	g.Reset(cfg)

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("small screen should show the resize notice")
	}
	if snap := g.Snapshot(); snap.State != StatePausedSmall {
		t.Errorf("state = %s, want paused_small_window", snap.State)
	}
}

func TestTileColorFromTheme(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if got := g.tileColor(8); got != core.ColorYellow {
		t.Errorf("tileColor(8) = %v, want yellow", got)
	}
	if got := g.tileColor(1 << 15); got != core.ColorBrightWhite {
		t.Errorf("tileColor(32768) = %v, want theme default", got)
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	before := g.Grid()

	g.Resize(20, 10)
	if g.Snapshot().State != StatePausedSmall {
		t.Error("shrinking below the minimum should pause")
	}
	g.Resize(80, 24)
	if g.Grid() != before || g.Snapshot().State != StatePlaying {
		t.Error("resize must not reset the game")
	}
}

func TestStartAtSurvivesRestart(t *testing.T) {
	g := New()
	g.StartAt(2)
	g.Reset(testConfig())
	g.Reset(testConfig())

	if g.Level() != 2 {
		t.Errorf("Level() = %d after restart, want 2", g.Level())
	}
}
