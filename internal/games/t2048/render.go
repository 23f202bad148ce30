package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

const (
	cellWidth  = 5 // Width of each cell (including borders)
	cellHeight = 2 // Height of each cell (including borders)
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := engine.Size*cellWidth + 1
	boardH := engine.Size*cellHeight + 1
	hudHeight := 3

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderGrid(dst, boardX, boardY)
	g.renderTiles(dst, boardX, boardY)
	g.renderFooter(dst, boardX, boardY+boardH+1, boardW)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the score and level info.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := "2048 Campaign"
	if g.mode == ModeEndless {
		title = "2048 Endless"
	}
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.eng.Score()))

	var info string
	if g.mode == ModeCampaign {
		info = fmt.Sprintf("Level %d/%d  Target %d", g.levelIndex+1, LevelCount(), g.currentTarget)
	} else {
		info = fmt.Sprintf("Max tile: %d", engine.MaxTile(g.eng.Grid()))
	}
	dst.DrawTextColored(boardX, 2, info, core.ColorGray)
}

// renderGrid draws the 4x4 box-drawing lattice.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY int) {
	for y := range engine.Size + 1 {
		for x := range engine.Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == engine.Size:
				corner = '┐'
			case y == engine.Size && x == 0:
				corner = '└'
			case y == engine.Size && x == engine.Size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == engine.Size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == engine.Size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, core.ColorGray)

			if x < engine.Size {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < engine.Size {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// renderTiles draws tile values, interpolating positions while a slide is animating.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	grid := g.eng.Grid()

	var skip [engine.Size][engine.Size]bool
	if g.animating {
		for _, a := range g.animations {
			skip[a.To.Row][a.To.Col] = true
		}
		if g.pendingNewTile != nil {
			skip[g.pendingNewTile.Pos.Row][g.pendingNewTile.Pos.Col] = true
		}
	}

	for r := range engine.Size {
		for c := range engine.Size {
			if v := grid[r][c]; v != 0 && !skip[r][c] {
				g.drawTile(dst, boardX+c*cellWidth+1, boardY+r*cellHeight+1, v)
			}
		}
	}

	if !g.animating {
		return
	}
	for i := range g.animations {
		a := &g.animations[i]
		switch {
		case a.IsNew:
			// Pop in: a dot first, then the value.
			x := boardX + a.To.Col*cellWidth + 1
			y := boardY + a.To.Row*cellHeight + 1
			if a.Progress < 0.5 {
				dst.SetColored(x+cellWidth/2-1, y, '·', g.tileColor(a.Value))
			} else {
				g.drawTile(dst, x, y, a.Value)
			}
		default:
			row, col := a.interpolatePosition()
			x := boardX + int(math.Round(col*cellWidth)) + 1
			y := boardY + int(math.Round(row*cellHeight)) + 1
			g.drawTile(dst, x, y, a.Value)
		}
	}
}

// tileLabel shortens values wider than a cell interior to kibi units, so
// 16384 is drawn as "16k".
func tileLabel(value int) string {
	s := strconv.Itoa(value)
	if len(s) < cellWidth {
		return s
	}
	return strconv.Itoa(value/1024) + "k"
}

// drawTile centers a value inside a cell whose top-left interior is (x, y).
func (g *Game) drawTile(dst *core.Screen, x, y, value int) {
	s := tileLabel(value)
	pad := max((cellWidth-1-len(s))/2, 0)
	dst.DrawTextColored(x+pad, y, s, g.tileColor(value))
}

// tileColor looks up a tile's color in the theme.
func (g *Game) tileColor(value int) core.Color {
	if name, ok := g.cfg.Theme.Tiles[value]; ok {
		if c, ok := core.ParseColor(name); ok {
			return c
		}
	}
	if c, ok := core.ParseColor(g.cfg.Theme.Default); ok {
		return c
	}
	return core.ColorDefault
}

// renderFooter shows the hint line and the last move's merges.
func (g *Game) renderFooter(dst *core.Screen, boardX, y, boardW int) {
	if g.showHint {
		dst.DrawTextColored(boardX, y, "Hint: "+g.hint.String(), core.ColorCyan)
	}
	merged := 0
	for _, m := range g.lastMoves {
		if m.Merged {
			merged++
		}
	}
	if merged > 0 {
		s := fmt.Sprintf("+%d merges", merged/2)
		dst.DrawTextColored(boardX+boardW-len(s), y, s, core.ColorGray)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX, centerY := core.NewRect(boardX, boardY, boardW, boardH).Center()

	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.levelCleared:
		target := fmt.Sprintf("Target %d reached!", g.currentTarget)
		if g.levelIndex >= LevelCount()-1 {
			g.drawOverlay(dst, centerX, centerY, target, "Final level complete!")
		} else {
			g.drawOverlay(dst, centerX, centerY, target, fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
	case g.won:
		g.drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, centerX, centerY, "GAME OVER",
			fmt.Sprintf("Max tile: %d", engine.MaxTile(g.eng.Grid())), "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.Rect{X: centerX - boxW/2, Y: centerY - boxH/2, W: boxW, H: boxH}

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawTextColored(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
