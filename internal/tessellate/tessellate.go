// Package tessellate converts a font glyph outline (move/line/quadratic-
// Bezier/cubic-Bezier segments in font-unit coordinates) into triangle-fan
// geometry, via the XOR-fill / outside-point trick: each closed contour is
// fanned from a point guaranteed to lie outside the glyph's bounding box,
// and the backend's blend function realizes XOR parity of coverage so
// overlapping fan triangles cancel correctly for arbitrary contours.
package tessellate

import (
	"github.com/hypernewbie/VEFontCache/drawlist"
	"github.com/hypernewbie/VEFontCache/font"
)

// DefaultCurveQuality is the number of evenly-spaced samples taken along a
// quadratic or cubic Bezier segment, matching VE_FONTCACHE_CURVE_QUALITY.
const DefaultCurveQuality = 6

// OutsideOffsetX and OutsideOffsetY are the default magic offsets applied
// to a glyph's bbox minimum to compute a point guaranteed to lie outside
// it. Any strictly-outside point works; these specific values are kept
// only to stay consistent with the figures used during development.
const (
	OutsideOffsetX = -21
	OutsideOffsetY = -33
)

// Tessellator accumulates the points of the contour currently being built
// and emits geometry for each contour as it closes. It holds no state
// beyond the current contour, so one Tessellator can be reused across many
// glyphs by calling Glyph again: Glyph clears the contour buffer on entry.
type Tessellator struct {
	contour []drawlist.Vertex
	quality int
}

// New returns a Tessellator sampling curves at quality points per segment.
// A quality of 0 uses DefaultCurveQuality.
func New(quality int) *Tessellator {
	if quality <= 0 {
		quality = DefaultCurveQuality
	}
	return &Tessellator{quality: quality}
}

// Glyph consumes segs (in font units) and emits XOR-fill triangle-fan
// geometry into dl, scaled by (scaleX, scaleY) and translated by
// (translateX, translateY) as each vertex is emitted — this is how a glyph
// is placed into its assigned scratch-buffer column. bbox is the glyph's
// unscaled bounding box, used to compute the outside point. Empty glyphs
// (no segments) produce no geometry.
func (ts *Tessellator) Glyph(dl *drawlist.List, segs []font.Segment, bbox font.BBox, scaleX, scaleY, translateX, translateY float32) {
	if len(segs) == 0 {
		return
	}
	outsideX := bbox.X0 + OutsideOffsetX
	outsideY := bbox.Y0 + OutsideOffsetY

	ts.contour = ts.contour[:0]
	for _, seg := range segs {
		switch seg.Op {
		case font.SegmentMoveTo:
			ts.flush(dl, outsideX, outsideY, scaleX, scaleY, translateX, translateY)
			ts.contour = append(ts.contour, drawlist.Vertex{X: seg.X, Y: seg.Y})
		case font.SegmentLineTo:
			ts.contour = append(ts.contour, drawlist.Vertex{X: seg.X, Y: seg.Y})
		case font.SegmentQuadTo:
			ts.appendQuad(seg)
		case font.SegmentCubicTo:
			ts.appendCubic(seg)
		}
	}
	ts.flush(dl, outsideX, outsideY, scaleX, scaleY, translateX, translateY)
}

// flush closes the current contour (if non-empty) by emitting it as a
// filled path against the outside point, then clears the contour buffer.
func (ts *Tessellator) flush(dl *drawlist.List, outsideX, outsideY, scaleX, scaleY, translateX, translateY float32) {
	if len(ts.contour) == 0 {
		return
	}
	dl.EmitFilledPath(ts.contour, outsideX, outsideY, scaleX, scaleY, translateX, translateY, drawlist.PassRasterizeGlyph)
	ts.contour = ts.contour[:0]
}

// appendQuad samples a quadratic Bezier at t = step, 2*step, ..., 1.0 where
// step = 1/quality, using p0 = last contour point, p1 = control, p2 = end.
func (ts *Tessellator) appendQuad(seg font.Segment) {
	if len(ts.contour) == 0 {
		return
	}
	p0 := ts.contour[len(ts.contour)-1]
	step := float32(1) / float32(ts.quality)
	for i := 1; i <= ts.quality; i++ {
		t := step * float32(i)
		it := 1 - t
		x := it*it*p0.X + 2*it*t*seg.CX + t*t*seg.X
		y := it*it*p0.Y + 2*it*t*seg.CY + t*t*seg.Y
		ts.contour = append(ts.contour, drawlist.Vertex{X: x, Y: y})
	}
}

// appendCubic samples a cubic Bezier the same way, with the four-term
// cubic formula: p0 = last contour point, p1/p2 = controls, p3 = end.
func (ts *Tessellator) appendCubic(seg font.Segment) {
	if len(ts.contour) == 0 {
		return
	}
	p0 := ts.contour[len(ts.contour)-1]
	step := float32(1) / float32(ts.quality)
	for i := 1; i <= ts.quality; i++ {
		t := step * float32(i)
		it := 1 - t
		b0 := it * it * it
		b1 := 3 * it * it * t
		b2 := 3 * it * t * t
		b3 := t * t * t
		x := b0*p0.X + b1*seg.CX + b2*seg.CX1 + b3*seg.X
		y := b0*p0.Y + b1*seg.CY + b2*seg.CY1 + b3*seg.Y
		ts.contour = append(ts.contour, drawlist.Vertex{X: x, Y: y})
	}
}
