// Command figdraw-demo builds a small scene, records it into a display
// list buffer, and writes the buffer to disk. It exercises the full
// pipeline: scene graph, trampoline renderer, recording context, and the
// dispatcher reading the buffer back.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/figdraw/figdraw"
	"github.com/figdraw/figdraw/displaylist"
	"github.com/figdraw/figdraw/render"
	"github.com/figdraw/figdraw/scene"
)

func main() {
	var (
		width   = flag.Float64("width", 800, "scene width")
		height  = flag.Float64("height", 600, "scene height")
		output  = flag.String("output", "scene.fdl", "output display list file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		figdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	g := buildScene(*width, *height)

	rec := displaylist.NewRecorder()
	rec.BeginChunk(0)
	render.New(g).RenderScene(displaylist.NewRecordingContext(rec))
	rec.EndChunk()
	buf, err := rec.Finish()
	if err != nil {
		log.Fatalf("record: %v", err)
	}

	// Read the buffer back the way a consumer would, to report what was
	// actually encoded.
	d, err := displaylist.NewDispatcher(buf, nil)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	visible := d.VisibleChunks(figdraw.NewRect(0, 0, *width, *height))

	if err := os.WriteFile(*output, buf, 0o644); err != nil {
		log.Fatalf("write %s: %v", *output, err)
	}
	log.Printf("wrote %s: %d bytes, %d chunks (%d visible), checksum %08x",
		*output, len(buf), d.ChunkCount(), len(visible), d.Checksum())
}

func buildScene(width, height float64) *scene.Graph {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, width, height,
		figdraw.RGBA{R: 0.12, G: 0.12, B: 0.14, A: 1}))

	// A grid of cards, one selected.
	var last scene.BlockID
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			card := scene.NewRectangleFigure(
				40+float64(col)*180, 40+float64(row)*130, 150, 100,
				figdraw.RGBA{R: 0.2 + 0.2*float64(col)/3, G: 0.4, B: 0.7 - 0.15*float64(row), A: 1})
			card.Stroke = figdraw.White
			card.StrokeWidth = 1
			id, err := g.AddChildTo(contents, card)
			if err != nil {
				log.Fatalf("add card: %v", err)
			}
			last = id
		}
	}
	g.SelectSingle(last)

	// A scrollable viewport with content hanging past its client area.
	vp := scene.NewViewportFigure(40, 440, 400, 120, figdraw.UniformInsets(4))
	vp.ScrollTo(20, 0)
	vpID, err := g.AddChildTo(contents, vp)
	if err != nil {
		log.Fatalf("add viewport: %v", err)
	}
	for i := 0; i < 8; i++ {
		strip := scene.NewRectangleFigure(float64(i)*70, 10, 60, 90,
			figdraw.RGBA{R: 0.9, G: 0.5 + 0.05*float64(i), B: 0.2, A: 1})
		if _, err := g.AddChildTo(vpID, strip); err != nil {
			log.Fatalf("add strip: %v", err)
		}
	}
	return g
}
