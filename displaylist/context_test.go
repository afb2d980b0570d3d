package displaylist

import (
	"reflect"
	"testing"

	"github.com/figdraw/figdraw"
	"github.com/figdraw/figdraw/render"
	"github.com/figdraw/figdraw/scene"
)

// TestRecordThenDispatchMatchesLiveRender renders a scene twice: once
// directly into a call-logging context, once through a RecordingContext
// into a buffer that is then dispatched. Both paths must produce the same
// call sequence.
func TestRecordThenDispatchMatchesLiveRender(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 200, 200, figdraw.White))
	if _, err := g.AddChildTo(contents, scene.NewRectangleFigure(10, 20, 50, 50, figdraw.Black)); err != nil {
		t.Fatalf("AddChildTo: %v", err)
	}
	if _, err := g.AddChildTo(contents, scene.NewRectangleFigure(80, 30, 40, 40, figdraw.Black)); err != nil {
		t.Fatalf("AddChildTo: %v", err)
	}
	r := render.New(g)

	live := &callContext{}
	r.Render(contents, live)

	rec := NewRecorder()
	rec.BeginChunk(0)
	r.Render(contents, NewRecordingContext(rec))
	rec.EndChunk()
	buf := finish(t, rec)

	replayed := &callContext{}
	if err := dispatcher(t, buf, nil).Dispatch(replayed); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(replayed.calls) != len(live.calls) {
		t.Fatalf("replay has %d calls, live has %d", len(replayed.calls), len(live.calls))
	}
	for i := range live.calls {
		if !reflect.DeepEqual(replayed.calls[i], live.calls[i]) {
			t.Errorf("call %d: replay %+v, live %+v", i, replayed.calls[i], live.calls[i])
		}
	}
}

func TestDispatcherCache(t *testing.T) {
	rec := NewRecorder()
	rec.BeginChunk(0)
	rec.FillRect(figdraw.NewRect(0, 0, 10, 10), figdraw.Black)
	rec.EndChunk()
	buf := finish(t, rec)

	c := NewDispatcherCache(0, nil)
	d1, err := c.Get(buf)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	d2, err := c.Get(buf)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d1 != d2 {
		t.Error("same buffer produced distinct dispatchers")
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", s)
	}

	// Equal content in a distinct allocation shares the entry.
	clone := make([]byte, len(buf))
	copy(clone, buf)
	d3, err := c.Get(clone)
	if err != nil {
		t.Fatalf("Get clone: %v", err)
	}
	if d3 != d1 {
		t.Error("identical content missed the cache")
	}

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after purge = %d, want 0", c.Len())
	}
}

func TestDispatcherCacheRejectsMalformed(t *testing.T) {
	c := NewDispatcherCache(0, nil)
	if _, err := c.Get([]byte("short")); err == nil {
		t.Error("expected error for malformed buffer")
	}
	if c.Len() != 0 {
		t.Error("malformed buffer was cached")
	}
}
