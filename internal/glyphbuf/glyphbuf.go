// Package glyphbuf implements the glyph-update intermediate buffer: an
// oversampled horizontal-packing scratch texture that newly-needed glyphs
// are staged into, flushed to the atlas via a downsample blit once full or
// once the orchestrator needs to flush a batch window.
package glyphbuf

import (
	"math"

	"github.com/hypernewbie/VEFontCache/atlas"
	"github.com/hypernewbie/VEFontCache/drawlist"
	"github.com/hypernewbie/VEFontCache/font"
	"github.com/hypernewbie/VEFontCache/internal/tessellate"
)

// Params bundles the scratch buffer's dimensions and oversample/padding
// tunables, set once from Config.
type Params struct {
	Width, Height int // GDW, GDH
	OversampleX   int
	OversampleY   int
	Padding       int
}

// Batch accumulates staged glyphs for one flush cycle. It owns its own
// pair of intermediate draw lists (clear + downsample), per spec.md §9
// "Ownership of buffers"; merging into the main list is an append, then a
// Reset of the intermediate lists.
type Batch struct {
	params Params
	ts     *tessellate.Tessellator

	nextX int

	clearList      *drawlist.List
	downsampleList *drawlist.List
	staged         bool
}

// New returns an empty Batch ready to stage glyphs.
func New(params Params, ts *tessellate.Tessellator) *Batch {
	return &Batch{
		params:         params,
		ts:             ts,
		clearList:      drawlist.New(),
		downsampleList: drawlist.New(),
	}
}

// Fits reports whether a glyph of scaled pixel width w (already multiplied
// by OversampleX, per Stage's caller) fits in the remaining scratch row
// without overflowing. A width exactly equal to the remaining space fits
// (per spec.md's boundary behavior: "must NOT flush (fits exactly)").
func (b *Batch) Fits(w int) bool {
	return b.nextX+w <= b.params.Width
}

// Stage rasterizes one uncached glyph into the batch: it records a clear
// quad and a downsample quad into the batch's intermediate lists (region
// carries the target region's tag so the backend's blit shader knows which
// kind of fill to perform), calls the tessellator with the computed
// scratch-space transform, and advances the cursor.
//
// bbox is the glyph's unscaled bounding box, scale the font's unit->pixel
// scale, slotRect the full slot the clear quad covers, destW/destH the
// padded glyph sub-rectangle at slotRect's origin that the downsample quad
// actually writes (the same sub-rectangle a composite draw call later
// samples — they must agree or the glyph reads back stretched or
// partially sampled), and region the atlas region tag carried on the blit
// draw call.
func (b *Batch) Stage(segs []font.Segment, bbox font.BBox, scale float32, slotRect atlas.Rect, destW, destH float32, region drawlist.RegionTag) (widthPx int) {
	ox, oy := float32(b.params.OversampleX), float32(b.params.OversampleY)
	pad := float32(b.params.Padding)

	wScaled := bbox.Width()*scale*ox + 2*pad*ox
	widthPx = int(math.Ceil(float64(wScaled)))

	scaleX := scale * ox
	scaleY := scale * oy
	translateX := -bbox.X0*scaleX + pad + float32(b.nextX)
	translateY := -bbox.Y0*scaleY + pad
	translateX = float32(math.Ceil(float64(translateX)))
	translateY = float32(math.Ceil(float64(translateY)))

	hScaled := bbox.Height()*scale*oy + 2*pad*oy

	b.clearList.EmitQuad(
		float32(slotRect.X), float32(slotRect.Y),
		float32(slotRect.X+slotRect.W), float32(slotRect.Y+slotRect.H),
		0, 0, 1, 1,
		drawlist.PassBlitAtlas, drawlist.RegionClear, drawlist.Colour{}, false,
	)

	// Rasterize into the scratch column before the blit that reads it: draw
	// calls execute in list order, and the downsample quad below samples
	// exactly the scratch region this fill writes.
	b.ts.Glyph(b.downsampleList, segs, bbox, scaleX, scaleY, translateX, translateY)

	u0, v0 := float32(b.nextX)/float32(b.params.Width), float32(0)
	u1, v1 := (float32(b.nextX)+wScaled)/float32(b.params.Width), hScaled/float32(b.params.Height)
	b.downsampleList.EmitQuad(
		float32(slotRect.X), float32(slotRect.Y),
		float32(slotRect.X)+destW, float32(slotRect.Y)+destH,
		u0, v0, u1, v1,
		drawlist.PassBlitAtlas, region, drawlist.Colour{}, false,
	)

	b.nextX += widthPx
	b.staged = true
	return widthPx
}

// Flush merges the batch's intermediate clear-list and downsample-list
// into main in that order, clears the intermediates, and — if any glyph
// was staged — appends a pass-1 empty-index-range draw call with
// ClearBeforeDraw set, which the backend interprets as "clear the scratch
// texture before next use" (spec.md §9's documented backend contract).
// Resets the cursor to 0.
func (b *Batch) Flush(main *drawlist.List) {
	if !b.staged {
		return
	}
	main.Merge(b.clearList)
	main.Merge(b.downsampleList)
	main.EmitEmptyMarker(drawlist.PassRasterizeGlyph)

	b.clearList.Reset()
	b.downsampleList.Reset()
	b.nextX = 0
	b.staged = false
}

// Pending reports whether the batch has anything staged awaiting flush.
func (b *Batch) Pending() bool { return b.staged }
