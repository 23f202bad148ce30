package t2048

import "github.com/vovakirdan/tui-2048/internal/engine"

// Animation constants
const (
	slideAnimationDuration = 8 // ~133ms at 60fps
	popAnimationDuration   = 6 // ~100ms at 60fps
)

// TileAnimation represents an animated tile.
type TileAnimation struct {
	Value    int
	From     engine.Position
	To       engine.Position
	Progress float64 // 0.0 → 1.0
	Merged   bool
	IsNew    bool
}

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// PendingTile stores the spawned tile to pop in after the slide.
type PendingTile struct {
	Pos   engine.Position
	Value int
}

// startSlideAnimation initializes slide animations from move tracking.
// Tiles that stay in place are not animated.
func (g *Game) startSlideAnimation(moves []engine.TileMove) {
	g.animations = g.animations[:0]
	for _, m := range moves {
		if m.From == m.To && !m.Merged {
			continue
		}
		g.animations = append(g.animations, TileAnimation{
			Value:  m.Value,
			From:   m.From,
			To:     m.To,
			Merged: m.Merged,
		})
	}
	g.pendingNewTile = nil
	g.animating = true
	g.animationPhase = PhaseSlide
	g.animationTicks = 0
}

// startPopAnimation initializes pop animation for a new tile.
func (g *Game) startPopAnimation(p PendingTile) {
	g.animations = []TileAnimation{{
		Value: p.Value,
		From:  p.Pos,
		To:    p.Pos,
		IsNew: true,
	}}
	g.animating = true
	g.animationPhase = PhasePop
	g.animationTicks = 0
}

// updateAnimation advances the animation state.
// Returns true if animation is still in progress.
func (g *Game) updateAnimation() bool {
	if !g.animating {
		return false
	}

	g.animationTicks++

	var duration int
	switch g.animationPhase {
	case PhaseSlide:
		duration = slideAnimationDuration
	case PhasePop:
		duration = popAnimationDuration
	default:
		g.animating = false
		return false
	}

	progress := min(float64(g.animationTicks)/float64(duration), 1.0)
	for i := range g.animations {
		g.animations[i].Progress = progress
	}

	if g.animationTicks >= duration {
		g.finishAnimation()
		return g.animating
	}
	return true
}

// finishAnimation completes the current animation phase.
func (g *Game) finishAnimation() {
	if g.animationPhase == PhaseSlide && g.pendingNewTile != nil {
		p := *g.pendingNewTile
		g.pendingNewTile = nil
		g.startPopAnimation(p)
		return
	}
	g.clearAnimation()
}

func (g *Game) clearAnimation() {
	g.animating = false
	g.animationPhase = PhaseNone
	g.animationTicks = 0
	g.animations = nil
	g.pendingNewTile = nil
}

// Animating reports whether a slide or pop is in progress.
func (g *Game) Animating() bool { return g.animating }

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolatePosition calculates the current position during animation in cell units.
func (a *TileAnimation) interpolatePosition() (row, col float64) {
	t := easeOutQuad(a.Progress)
	row = float64(a.From.Row) + (float64(a.To.Row)-float64(a.From.Row))*t
	col = float64(a.From.Col) + (float64(a.To.Col)-float64(a.From.Col))*t
	return row, col
}
