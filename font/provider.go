// Package font defines the font-outline provider interface the cache
// consumes, and an implementation backed by golang.org/x/image/font/sfnt.
package font

import "errors"

// ErrFontLoadFailed is returned when font bytes or a font file could not be
// parsed as a valid outline font.
var ErrFontLoadFailed = errors.New("font: failed to parse font data")

// GlyphIndex identifies a glyph within a font. Zero means "no glyph" (the
// codepoint is not mapped), matching find_glyph's contract.
type GlyphIndex uint16

// SegmentOp identifies the kind of a single outline edge.
type SegmentOp int

const (
	SegmentMoveTo SegmentOp = iota
	SegmentLineTo
	SegmentQuadTo
	SegmentCubicTo
)

// Segment is one edge of a glyph outline, in font units. X, Y is always the
// edge's endpoint. CX, CY is the control point for a quadratic; CX, CY and
// CX1, CY1 are the two control points for a cubic.
type Segment struct {
	Op       SegmentOp
	X, Y     float32
	CX, CY   float32
	CX1, CY1 float32
}

// BBox is an axis-aligned bounding box in font units.
type BBox struct {
	X0, Y0, X1, Y1 float32
}

// Width returns X1 - X0.
func (b BBox) Width() float32 { return b.X1 - b.X0 }

// Height returns Y1 - Y0.
func (b BBox) Height() float32 { return b.Y1 - b.Y0 }

// VMetrics holds a font's vertical metrics, in font units.
type VMetrics struct {
	Ascent, Descent, LineGap float32
}

// Provider is the font-outline provider interface consumed by the curve
// tessellator, the atlas region classifier, and the shape cache's fallback
// shaper. An implementation owns exactly one parsed font; callers that need
// several sizes of the same face share one Provider and supply per-call
// pixel scale.
type Provider interface {
	// FindGlyph returns the glyph index mapped to codepoint, or 0 if the
	// font has no glyph for it.
	FindGlyph(codepoint rune) GlyphIndex

	// IsGlyphEmpty reports whether a glyph has no outline (e.g. space).
	IsGlyphEmpty(gid GlyphIndex) bool

	// GlyphBBox returns a glyph's bounding box in font units.
	GlyphBBox(gid GlyphIndex) BBox

	// GlyphShape returns a glyph's outline as a sequence of edges in font
	// units. The first segment of a contour is always SegmentMoveTo.
	GlyphShape(gid GlyphIndex) ([]Segment, error)

	// VMetrics returns the font's ascent/descent/line-gap, in font units.
	VMetrics() VMetrics

	// HMetrics returns a codepoint's advance width and left side bearing,
	// in font units.
	HMetrics(codepoint rune) (advance, lsb float32)

	// Kern returns the kerning adjustment between two consecutive
	// codepoints, in font units. Zero if the font has no kerning table or
	// no entry for the pair.
	Kern(prev, cur rune) int32

	// ScaleForPixelHeight returns the scale factor that maps font units to
	// pixels so that the font's ascent-to-descent span equals px pixels.
	ScaleForPixelHeight(px float32) float32

	// ScaleForEm returns the scale factor that maps font units to pixels
	// so that one em equals px pixels.
	ScaleForEm(px float32) float32
}

// Rawer is implemented by providers that can hand back the original font
// bytes they were parsed from. Shapers that need their own independent
// parse of the same font data (a real shaper using a different font
// library than the provider) use this instead of re-reading a file.
type Rawer interface {
	RawBytes() []byte
}
