// Package shaping defines the shaper capability set consumed by the cache,
// a built-in fallback implementing spec.md §4.7's contract, a real shaper
// backed by github.com/go-text/typesetting's HarfBuzz port, and the shape
// cache that fronts either with an LRU keyed by (font, text).
package shaping

import "github.com/hypernewbie/VEFontCache/font"

// Glyph is one output element of shaping: a codepoint and the pen position
// (in font units, already scaled the way the glyph provider's advance/kern
// values are) at which it should be drawn.
type Glyph struct {
	Codepoint  rune
	PenX, PenY float32
}

// Run is the output of shaping a single string against a single font: the
// (codepoint, pen position) pairs spec.md §4.7 requires every shaper —
// fallback or real — to produce.
type Run struct {
	Glyphs []Glyph
}

// Shaper is the capability set any text shaper implements: given a font
// provider, its unit->pixel scale, and UTF-8 text, produce a Run. A real
// shaper (HarfBuzz via go-text/typesetting) and the built-in fallback are
// both variants of this one capability, per spec.md §9 "Shaper variant".
// sizePx is the font's signed nominal pixel size, exactly as passed to
// Load/LoadFile: negative selects scale-for-pixel-height, positive
// scale-for-em. The fallback shaper uses |sizePx| to decide whether to
// pixel-snap pen.x (spec.md §4.7: "if |nominal_size| <= 12, round pen.x").
type Shaper interface {
	Shape(p font.Provider, scale, sizePx float32, text string) (Run, error)
}
