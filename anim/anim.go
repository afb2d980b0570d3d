// Package anim provides frame-driven tween animations over scene blocks.
// There is no global animation manager; callers hold the Animation and
// call Update(dt) each frame until it reports done.
package anim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/figdraw/figdraw"
	"github.com/figdraw/figdraw/scene"
)

// Animation advances up to four tweened values and applies them to a
// scene target each frame. Create one via the constructors (MoveTo,
// FadeTo, ScrollTo). If the target block is removed mid-flight, the
// animation stops instead of erroring.
type Animation struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64) bool
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values. It
// returns true once the animation has finished or its target is gone.
func (a *Animation) Update(dt float32) bool {
	if a.Done {
		return true
	}
	var vals [4]float64
	allDone := true
	for i := 0; i < a.count; i++ {
		v, finished := a.tweens[i].Update(dt)
		vals[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	if !a.apply(vals) {
		a.Done = true
		return true
	}
	a.Done = allDone
	return a.Done
}

// MoveTo animates a block's bounds origin to (toX, toY) over duration
// seconds. Movement goes through the graph's translate propagation, so
// the block's subtree follows each step.
func MoveTo(g *scene.Graph, id scene.BlockID, toX, toY float64, duration float32, fn ease.TweenFunc) *Animation {
	b, ok := g.Block(id)
	if !ok {
		return &Animation{Done: true}
	}
	origin := b.Bounds().Origin()
	last := origin

	a := &Animation{count: 2}
	a.tweens[0] = gween.New(float32(origin.X), float32(toX), duration, fn)
	a.tweens[1] = gween.New(float32(origin.Y), float32(toY), duration, fn)
	a.apply = func(vals [4]float64) bool {
		dx, dy := vals[0]-last.X, vals[1]-last.Y
		if err := g.PrimTranslate(id, dx, dy); err != nil {
			return false
		}
		last = figdraw.Pt(vals[0], vals[1])
		return true
	}
	return a
}

// FadeTo animates a rectangle figure's fill color to the target color.
func FadeTo(fig *scene.RectangleFigure, to figdraw.RGBA, duration float32, fn ease.TweenFunc) *Animation {
	a := &Animation{count: 4}
	from := fig.Fill
	a.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	a.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	a.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	a.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	a.apply = func(vals [4]float64) bool {
		fig.Fill = figdraw.RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}
		return true
	}
	return a
}

// ScrollTo animates a viewport's view offset to (toX, toY). Scrolling
// moves the view without touching any child bounds.
func ScrollTo(fig *scene.ViewportFigure, toX, toY float64, duration float32, fn ease.TweenFunc) *Animation {
	from := fig.ViewLocation()
	a := &Animation{count: 2}
	a.tweens[0] = gween.New(float32(from.X), float32(toX), duration, fn)
	a.tweens[1] = gween.New(float32(from.Y), float32(toY), duration, fn)
	a.apply = func(vals [4]float64) bool {
		fig.ScrollTo(vals[0], vals[1])
		return true
	}
	return a
}
