package shaping

import (
	"testing"

	"github.com/hypernewbie/VEFontCache/font"
)

// fakeProvider is a minimal font.Provider stub for shaper tests: every
// codepoint has advance 10, no kerning, and simple vertical metrics.
type fakeProvider struct {
	kern map[[2]rune]int32
}

func (f *fakeProvider) FindGlyph(r rune) font.GlyphIndex       { return font.GlyphIndex(r) }
func (f *fakeProvider) IsGlyphEmpty(font.GlyphIndex) bool      { return false }
func (f *fakeProvider) GlyphBBox(font.GlyphIndex) font.BBox    { return font.BBox{} }
func (f *fakeProvider) GlyphShape(font.GlyphIndex) ([]font.Segment, error) {
	return nil, nil
}
func (f *fakeProvider) VMetrics() font.VMetrics { return font.VMetrics{Ascent: 800, Descent: -200, LineGap: 0} }
func (f *fakeProvider) HMetrics(rune) (advance, lsb float32) { return 10, 0 }
func (f *fakeProvider) Kern(prev, cur rune) int32 {
	if f.kern == nil {
		return 0
	}
	return f.kern[[2]rune{prev, cur}]
}
func (f *fakeProvider) ScaleForPixelHeight(px float32) float32 { return 1 }
func (f *fakeProvider) ScaleForEm(px float32) float32          { return 1 }

func TestBuiltinShaper_AdvanceOnly(t *testing.T) {
	s := BuiltinShaper{}
	p := &fakeProvider{}
	run, err := s.Shape(p, 1, 20, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(run.Glyphs))
	}
	want := []float32{0, 10, 20}
	for i, g := range run.Glyphs {
		if g.PenX != want[i] {
			t.Errorf("glyph %d: expected penX %v, got %v", i, want[i], g.PenX)
		}
	}
}

func TestBuiltinShaper_Linebreak(t *testing.T) {
	s := BuiltinShaper{}
	p := &fakeProvider{}
	run, err := s.Shape(p, 1, 20, "a\nb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Glyphs) != 2 {
		t.Fatalf("expected 2 glyphs (newline consumed), got %d", len(run.Glyphs))
	}
	if run.Glyphs[1].PenX != 0 {
		t.Fatalf("expected penX reset to 0 after linebreak, got %v", run.Glyphs[1].PenX)
	}
	wantLineAdvance := -(float32(800) - float32(-200) + 0)
	if run.Glyphs[1].PenY != wantLineAdvance {
		t.Fatalf("expected penY %v after linebreak, got %v", wantLineAdvance, run.Glyphs[1].PenY)
	}
}

func TestBuiltinShaper_SmallFontSnap(t *testing.T) {
	s := BuiltinShaper{}
	p := &fakeProvider{kern: map[[2]rune]int32{{'a', 'b'}: 3}}
	run, err := s.Shape(p, 1, 10, "ab") // |size| <= 12: snap applies
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// pen.x before 'b' = 10 (advance of 'a') + kern 3 = 13, already integral.
	if run.Glyphs[1].PenX != 13 {
		t.Fatalf("expected penX 13, got %v", run.Glyphs[1].PenX)
	}
}

func TestBuiltinShaper_LargeFontNoSnap(t *testing.T) {
	s := BuiltinShaper{}
	p := &fakeProvider{}
	run1, _ := s.Shape(p, 1, 24, "a")
	run2, _ := s.Shape(p, 1, 10, "a")
	if len(run1.Glyphs) != 1 || len(run2.Glyphs) != 1 {
		t.Fatal("expected one glyph from each shape call")
	}

	// pen.x before 'b' = 10 * 0.13 = 1.3: rounded to 1 at size 24 (no
	// snap), rounded up to 2 at size 10 (snap).
	large, _ := s.Shape(p, 0.13, 24, "ab")
	small, _ := s.Shape(p, 0.13, 10, "ab")
	if len(large.Glyphs) != 2 || len(small.Glyphs) != 2 {
		t.Fatal("expected two glyphs from each shape call")
	}
	if large.Glyphs[1].PenX != 1 {
		t.Fatalf("expected unsnapped penX 1 at size 24, got %v", large.Glyphs[1].PenX)
	}
	if small.Glyphs[1].PenX != 2 {
		t.Fatalf("expected snapped penX 2 at size 10, got %v", small.Glyphs[1].PenX)
	}
}
