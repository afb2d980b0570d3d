package render

import (
	"github.com/figdraw/figdraw"
	"github.com/figdraw/figdraw/scene"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	taskCapacity int
}

func defaultConfig() config {
	return config{taskCapacity: 256}
}

// WithTaskCapacity sets the initial capacity of the reusable task queue.
// Useful when the scene size is known up front.
func WithTaskCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.taskCapacity = n
		}
	}
}

// Renderer turns a scene tree into a deterministic paint-task queue and
// executes it. The queue buffer is reused across passes; a Renderer is for
// one goroutine at a time.
type Renderer struct {
	graph *scene.Graph
	tasks []PaintTask
}

// New creates a renderer over the graph.
func New(g *scene.Graph, opts ...Option) *Renderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Renderer{
		graph: g,
		tasks: make([]PaintTask, 0, cfg.taskCapacity),
	}
}

// genPhase is one pending step of task generation. Generation is a
// work-stack state machine, not recursion: enter expands a block into its
// task bracket, emit flushes a deferred task (Restore, PaintBorder,
// PaintHighlight) once the subtree before it has been expanded.
type genPhase struct {
	enter bool
	id    scene.BlockID
	task  PaintTask
}

// Tasks generates the paint-task queue for the subtree rooted at root, in
// execution order. For each visible block the queue contains, in order:
// Save, a Translate of the block's runtime transform translation,
// PaintFigure, a second Translate to the bounds origin when the figure is
// a coordinate root, a Clip of the client area when the figure clips
// children, the children's brackets in insertion order (later children
// later in the queue, so they paint on top), Restore, PaintBorder, and
// PaintHighlight when the block is selected.
//
// Bounds are absolute within the nearest coordinate root's frame, so an
// ordinary block passes its frame to its children unchanged; translating
// a block through Graph.PrimTranslate already rewrote every descendant's
// bounds, and composing the bounds origin here as well would move the
// subtree twice. Only a coordinate root shifts the frame: its children's
// bounds are expressed relative to it, and a clip bounds them to the
// client area. An ordinary clipping figure clips at its bounds instead,
// without shifting the frame.
//
// Every Save has a matching Restore and no queue prefix closes more states
// than it opened; that balance is a generator invariant, not something the
// consumer checks.
//
// The returned slice is reused by the next Tasks or Render call.
func (r *Renderer) Tasks(root scene.BlockID) []PaintTask {
	r.tasks = r.tasks[:0]

	stack := make([]genPhase, 0, 64)
	stack = append(stack, genPhase{enter: true, id: root})

	for len(stack) > 0 {
		ph := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !ph.enter {
			r.tasks = append(r.tasks, ph.task)
			continue
		}

		b, ok := r.graph.Block(ph.id)
		if !ok || !b.Visible {
			continue
		}
		fig := b.Figure()
		bounds := fig.Bounds()
		trans := b.Transform.Translation()

		r.tasks = append(r.tasks, PaintTask{Kind: TaskSave})
		r.tasks = append(r.tasks, PaintTask{Kind: TaskTranslate, X: trans.X, Y: trans.Y})
		r.tasks = append(r.tasks, PaintTask{Kind: TaskPaintFigure, Block: ph.id})
		if fig.UseLocalCoordinates() {
			r.tasks = append(r.tasks, PaintTask{Kind: TaskTranslate, X: bounds.X, Y: bounds.Y})
		}
		if fig.ClipsChildren() {
			area := fig.ClientArea()
			if !fig.UseLocalCoordinates() {
				area = area.Translate(bounds.X, bounds.Y)
			}
			r.tasks = append(r.tasks, PaintTask{
				Kind: TaskClip,
				X:    area.X, Y: area.Y, W: area.W, H: area.H,
			})
		}

		// Deferred tasks push in reverse of emission order.
		if b.Selected {
			stack = append(stack, genPhase{task: PaintTask{Kind: TaskPaintHighlight, Block: ph.id}})
		}
		stack = append(stack, genPhase{task: PaintTask{Kind: TaskPaintBorder, Block: ph.id}})
		stack = append(stack, genPhase{task: PaintTask{Kind: TaskRestore}})
		children := b.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, genPhase{enter: true, id: children[i]})
		}
	}
	return r.tasks
}

// Execute runs tasks against ctx in queue order, front to back. Stale block
// references are skipped; consuming only a prefix is safe since no task has
// side effects until executed.
func (r *Renderer) Execute(tasks []PaintTask, ctx figdraw.RenderContext) {
	for _, task := range tasks {
		switch task.Kind {
		case TaskSave:
			ctx.SaveState()
		case TaskRestore:
			ctx.RestoreState()
		case TaskTranslate:
			ctx.Translate(task.X, task.Y)
		case TaskClip:
			ctx.ClipRect(figdraw.NewRect(task.X, task.Y, task.W, task.H))
		case TaskPaintFigure:
			if b, ok := r.graph.Block(task.Block); ok {
				b.Figure().PaintFigure(ctx)
			}
		case TaskPaintBorder:
			if b, ok := r.graph.Block(task.Block); ok {
				b.Figure().PaintBorder(ctx)
			}
		case TaskPaintHighlight:
			if b, ok := r.graph.Block(task.Block); ok {
				b.Figure().PaintHighlight(ctx)
			}
		case TaskNop:
		}
	}
}

// Render generates the queue for root and executes it immediately.
func (r *Renderer) Render(root scene.BlockID, ctx figdraw.RenderContext) {
	r.Execute(r.Tasks(root), ctx)
}

// RenderScene renders from the graph's contents block, falling back to the
// root when no contents is set.
func (r *Renderer) RenderScene(ctx figdraw.RenderContext) {
	start := r.graph.Contents()
	if !start.IsValid() {
		start = r.graph.Root()
	}
	r.Render(start, ctx)
}
