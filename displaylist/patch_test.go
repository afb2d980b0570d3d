package displaylist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/figdraw/figdraw"
)

// baseBuffer builds a two-chunk buffer: chunk 1 fills (0,0,10,10), chunk 2
// fills (50,50,10,10). Ids are 1 and 2.
func baseBuffer(t *testing.T) []byte {
	t.Helper()
	rec := NewRecorder()
	rec.AddResource(ManifestEntry{ID: 1, Kind: ResourceImage, Length: 100})
	rec.BeginChunk(0)
	rec.FillRect(figdraw.NewRect(0, 0, 10, 10), figdraw.Black)
	rec.EndChunk()
	rec.BeginChunk(0)
	rec.FillRect(figdraw.NewRect(50, 50, 10, 10), figdraw.Black)
	rec.EndChunk()
	return finish(t, rec)
}

// chunkFrom records a single-chunk buffer and extracts its body and
// bounds, the raw material for a patch operation.
func chunkFrom(t *testing.T, record func(*Recorder)) ([]byte, figdraw.Rect) {
	t.Helper()
	rec := NewRecorder()
	rec.BeginChunk(0)
	record(rec)
	rec.EndChunk()
	d := dispatcher(t, finish(t, rec), nil)
	body, err := d.ChunkBody(1)
	if err != nil {
		t.Fatalf("ChunkBody: %v", err)
	}
	return body, d.Chunks()[0].Bounds
}

func applyOK(t *testing.T, base, patch []byte) []byte {
	t.Helper()
	out, err := Apply(base, patch)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return out
}

func finishPatch(t *testing.T, b *PatchBuilder) []byte {
	t.Helper()
	p, err := b.Finish()
	if err != nil {
		t.Fatalf("patch Finish: %v", err)
	}
	return p
}

func TestApplyNoOpIsIdempotent(t *testing.T) {
	base := baseBuffer(t)
	out := applyOK(t, base, finishPatch(t, NewPatchBuilder()))

	if len(out) != len(base) {
		t.Fatalf("length changed: %d -> %d", len(base), len(out))
	}
	// Byte-identical outside the checksum field; the checksum is compared
	// separately since identical content must also hash identically.
	mask := func(b []byte) []byte {
		m := make([]byte, len(b))
		copy(m, b)
		putU32(m, offChecksum, 0)
		return m
	}
	if !bytes.Equal(mask(out), mask(base)) {
		t.Error("no-op patch changed buffer content")
	}
	if getU32(out, offChecksum) != getU32(base, offChecksum) {
		t.Error("no-op patch changed checksum")
	}
}

func TestApplyReplaceChunk(t *testing.T) {
	base := baseBuffer(t)
	body, bounds := chunkFrom(t, func(r *Recorder) {
		r.FillRect(figdraw.NewRect(7, 7, 3, 3), figdraw.White)
	})

	b := NewPatchBuilder()
	b.ReplaceChunk(1, 0, &bounds, body)
	out := applyOK(t, base, finishPatch(t, b))

	ctx := &callContext{}
	if err := dispatcher(t, out, nil).Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(ctx.calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(ctx.calls))
	}
	if ctx.calls[0].rect != figdraw.NewRect(7, 7, 3, 3) {
		t.Errorf("replaced chunk draws %v", ctx.calls[0].rect)
	}
	if ctx.calls[1].rect != figdraw.NewRect(50, 50, 10, 10) {
		t.Errorf("untouched chunk draws %v", ctx.calls[1].rect)
	}
}

func TestApplyDeleteAndInsert(t *testing.T) {
	base := baseBuffer(t)
	body, bounds := chunkFrom(t, func(r *Recorder) {
		r.FillRect(figdraw.NewRect(90, 90, 5, 5), figdraw.Black)
	})

	b := NewPatchBuilder()
	b.DeleteChunk(1)
	b.InsertChunk(7, 0, &bounds, body)
	out := applyOK(t, base, finishPatch(t, b))

	d := dispatcher(t, out, nil)
	if d.ChunkCount() != 2 {
		t.Fatalf("chunk count = %d, want 2", d.ChunkCount())
	}
	chunks := d.Chunks()
	if chunks[0].ID != 2 || chunks[1].ID != 7 {
		t.Errorf("chunk ids = %d, %d; want 2, 7", chunks[0].ID, chunks[1].ID)
	}
	ctx := &callContext{}
	if err := d.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(ctx.calls) != 2 || ctx.calls[1].rect != figdraw.NewRect(90, 90, 5, 5) {
		t.Errorf("calls = %+v", ctx.calls)
	}
}

func TestApplyUpdateManifest(t *testing.T) {
	base := baseBuffer(t)

	b := NewPatchBuilder()
	b.UpdateManifest(ManifestEntry{ID: 1, Kind: ResourceImage, Length: 999})
	b.UpdateManifest(ManifestEntry{ID: 5, Kind: ResourceFont, Length: 64})
	out := applyOK(t, base, finishPatch(t, b))

	man := dispatcher(t, out, nil).Manifest()
	if len(man) != 2 {
		t.Fatalf("manifest = %+v", man)
	}
	if man[0].ID != 1 || man[0].Length != 999 {
		t.Errorf("updated entry = %+v", man[0])
	}
	if man[1].ID != 5 || man[1].Kind != ResourceFont {
		t.Errorf("appended entry = %+v", man[1])
	}
}

func TestApplyFullReplace(t *testing.T) {
	base := baseBuffer(t)
	rec := NewRecorder()
	rec.BeginChunk(0)
	rec.FillRect(figdraw.NewRect(1, 1, 1, 1), figdraw.Black)
	rec.EndChunk()
	replacement := finish(t, rec)

	b := NewPatchBuilder()
	// Other operations are ignored once a FullReplace is present.
	b.DeleteChunk(2)
	b.FullReplace(replacement)
	out := applyOK(t, base, finishPatch(t, b))

	if !bytes.Equal(out, replacement) {
		t.Error("FullReplace did not return the payload verbatim")
	}
}

func TestApplyRejectsBadPatches(t *testing.T) {
	base := baseBuffer(t)

	t.Run("base version mismatch", func(t *testing.T) {
		p := finishPatch(t, NewPatchBuilder())
		putU16(p, poffBaseVersion, 99)
		if _, err := Apply(base, p); !errors.Is(err, ErrPatchVersionMismatch) {
			t.Errorf("got %v, want %v", err, ErrPatchVersionMismatch)
		}
	})
	t.Run("unknown chunk", func(t *testing.T) {
		b := NewPatchBuilder()
		b.DeleteChunk(42)
		if _, err := Apply(base, finishPatch(t, b)); !errors.Is(err, ErrUnknownChunk) {
			t.Errorf("got %v, want %v", err, ErrUnknownChunk)
		}
	})
	t.Run("insert with existing id", func(t *testing.T) {
		body, _ := chunkFrom(t, func(r *Recorder) {
			r.FillRect(figdraw.NewRect(0, 0, 1, 1), figdraw.Black)
		})
		b := NewPatchBuilder()
		b.InsertChunk(1, 0, nil, body)
		if _, err := Apply(base, finishPatch(t, b)); !errors.Is(err, ErrPatchInvalidOperation) {
			t.Errorf("got %v, want %v", err, ErrPatchInvalidOperation)
		}
	})
	t.Run("truncated patch", func(t *testing.T) {
		if _, err := Apply(base, []byte("FDLP")); !errors.Is(err, ErrBufferTooSmall) {
			t.Errorf("got %v, want %v", err, ErrBufferTooSmall)
		}
	})
	t.Run("wrong magic", func(t *testing.T) {
		p := finishPatch(t, NewPatchBuilder())
		p[0] = 'X'
		if _, err := Apply(base, p); !errors.Is(err, ErrInvalidMagic) {
			t.Errorf("got %v, want %v", err, ErrInvalidMagic)
		}
	})
}

func TestApplyRejectionLeavesBaseIntact(t *testing.T) {
	base := baseBuffer(t)
	before := make([]byte, len(base))
	copy(before, base)

	b := NewPatchBuilder()
	b.DeleteChunk(42)
	if _, err := Apply(base, finishPatch(t, b)); err == nil {
		t.Fatal("expected rejection")
	}

	if !bytes.Equal(base, before) {
		t.Fatal("base buffer mutated by a rejected patch")
	}
	// The base still dispatches normally.
	ctx := &callContext{}
	if err := dispatcher(t, base, nil).Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch after rejection: %v", err)
	}
	if len(ctx.calls) != 2 {
		t.Errorf("got %d calls, want 2", len(ctx.calls))
	}
}
