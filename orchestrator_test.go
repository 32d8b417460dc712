package vefontcache

import (
	"math"
	"testing"

	"github.com/hypernewbie/VEFontCache/atlas"
	"github.com/hypernewbie/VEFontCache/drawlist"
)

// === DrawText golden path ===

func TestDrawText_InvalidFontIDFails(t *testing.T) {
	c := New(Config{}, nil)
	if c.DrawText(7, "a", Pos{}, 1) {
		t.Fatal("expected DrawText to fail for an unloaded font id")
	}
}

func TestDrawText_CachesAndCompositesEachGlyphOnce(t *testing.T) {
	c := New(Config{}, nil)
	id := injectFont(c, &stubProvider{}, 24, 1)

	if !c.DrawText(id, "ab", Pos{}, 1) {
		t.Fatal("expected DrawText to succeed")
	}

	keyA := atlas.CompositeKey(id, 'a')
	keyB := atlas.CompositeKey(id, 'b')
	if _, ok := c.atl.Lookup(atlas.RegionA, keyA); !ok {
		t.Fatal("expected 'a' resident in region A")
	}
	if _, ok := c.atl.Lookup(atlas.RegionA, keyB); !ok {
		t.Fatal("expected 'b' resident in region A")
	}

	composites := countPass(c.GetDrawList(), drawlist.PassCompositeCached)
	if composites != 2 {
		t.Fatalf("expected 2 pass-3 composite quads, got %d", composites)
	}
}

func TestDrawText_SkipsMissingAndEmptyGlyphs(t *testing.T) {
	c := New(Config{}, nil)
	p := &stubProvider{emptyAt: map[rune]bool{' ': true}}
	id := injectFont(c, p, 24, 1)

	// ' ' is empty; NUL maps to glyph index 0 (missing).
	if !c.DrawText(id, "a b\x00", Pos{}, 1) {
		t.Fatal("expected DrawText to succeed")
	}
	composites := countPass(c.GetDrawList(), drawlist.PassCompositeCached)
	if composites != 2 {
		t.Fatalf("expected only the two drawable glyphs composited, got %d", composites)
	}
}

func TestDrawText_RecordsRejectionsResetPerCall(t *testing.T) {
	c := New(Config{}, nil)
	id := injectFont(c, &stubProvider{}, 24, 1)

	if !c.DrawText(id, "a\x00b", Pos{}, 1) {
		t.Fatal("expected DrawText to succeed")
	}
	rej := c.Rejections()
	if len(rej) != 1 {
		t.Fatalf("expected exactly one rejection for the NUL codepoint, got %d", len(rej))
	}
	if rej[0].Reason != ReasonNotInFont {
		t.Fatalf("expected ReasonNotInFont, got %v", rej[0].Reason)
	}

	if !c.DrawText(id, "ab", Pos{}, 1) {
		t.Fatal("expected DrawText to succeed")
	}
	if got := c.Rejections(); len(got) != 0 {
		t.Fatalf("expected rejections cleared on a call with no rejects, got %d", len(got))
	}
}

// === Snap ===

func TestConfigureSnap_RoundsTargetPosOnly(t *testing.T) {
	c := New(Config{}, nil)
	c.ConfigureSnap(4, 4)
	id := injectFont(c, &stubProvider{}, 24, 1)

	pos := Pos{X: 1.3, Y: 1.3}
	if !c.DrawText(id, "a", pos, 1) {
		t.Fatal("expected DrawText to succeed")
	}

	wantX := float32(math.Floor(float64(pos.X*4)+0.5)) / 4
	wantY := float32(math.Floor(float64(pos.Y*4)+0.5)) / 4
	pad := float32(c.cfg.AtlasPadding)
	wantDestX := wantX - pad
	wantDestY := wantY - pad

	dc := firstOfPass(c.GetDrawList(), drawlist.PassCompositeCached)
	if dc == nil {
		t.Fatal("expected a pass-3 composite draw call")
	}
	list := c.GetDrawList()
	got := list.Vertices[list.Indices[dc.StartIndex]]
	if !almostEqual(got.X, wantDestX) || !almostEqual(got.Y, wantDestY) {
		t.Fatalf("expected snapped dest (%v, %v), got (%v, %v)", wantDestX, wantDestY, got.X, got.Y)
	}
}

// === Draw-list optimize/flush lifecycle already covered in cache_test.go ===

// === Seed scenario 5: forced batch flush on predicted LRU eviction ===
//
// Region A is shrunk to a 2-slot capacity. Drawing three distinct codepoints
// in one call fills the region with the first two, then the third's
// predicted evictee (the first, still the LRU) is already in this window's
// seen set — DrawText must flush the pending composites for the first two
// glyphs before staging the third, so the eviction never loses a draw call.
func TestDrawText_SeedScenario5_ForcedBatchFlushOnLRUConflict(t *testing.T) {
	cfg := Config{
		RegionA: RegionConfig{Width: 32, Height: 32, XSize: 64, YSize: 32},
	}
	c := New(cfg, nil)
	if got := c.atl.Capacity(atlas.RegionA); got != 2 {
		t.Fatalf("expected region A capacity 2 for this test's layout, got %d", got)
	}

	id := injectFont(c, &stubProvider{}, 24, 1)
	text := string([]rune{1, 2, 3})

	if !c.DrawText(id, text, Pos{}, 1) {
		t.Fatal("expected DrawText to succeed")
	}

	k0 := atlas.CompositeKey(id, 1)
	k1 := atlas.CompositeKey(id, 2)
	k2 := atlas.CompositeKey(id, 3)

	if _, ok := c.atl.Lookup(atlas.RegionA, k0); ok {
		t.Fatal("expected the first codepoint to have been evicted")
	}
	if _, ok := c.atl.Lookup(atlas.RegionA, k1); !ok {
		t.Fatal("expected the second codepoint to still be resident")
	}
	if _, ok := c.atl.Lookup(atlas.RegionA, k2); !ok {
		t.Fatal("expected the third codepoint to be resident")
	}
	if got := c.atl.Len(atlas.RegionA); got != 2 {
		t.Fatalf("expected region A to remain at capacity 2, got %d", got)
	}

	composites := countPass(c.GetDrawList(), drawlist.PassCompositeCached)
	if composites != 3 {
		t.Fatalf("expected all three glyphs composited despite the mid-run eviction, got %d", composites)
	}
	if got := c.Stats().RegionA.Evictions; got != 1 {
		t.Fatalf("expected exactly one forced-flush eviction recorded, got %d", got)
	}
}

func countPass(list *drawlist.List, pass drawlist.Pass) int {
	n := 0
	for _, dc := range list.DrawCalls {
		if dc.Pass == pass {
			n++
		}
	}
	return n
}

func firstOfPass(list *drawlist.List, pass drawlist.Pass) *drawlist.DrawCall {
	for i := range list.DrawCalls {
		if list.DrawCalls[i].Pass == pass {
			return &list.DrawCalls[i]
		}
	}
	return nil
}

func almostEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.001
}
