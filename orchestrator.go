package vefontcache

import (
	"math"

	"github.com/hypernewbie/VEFontCache/atlas"
	"github.com/hypernewbie/VEFontCache/drawlist"
	"github.com/hypernewbie/VEFontCache/font"
	"github.com/hypernewbie/VEFontCache/shaping"
)

// Pos is a 2D pixel position: DrawText's target placement, and a shaped
// run's per-glyph pen position before it is added to that target.
type Pos struct {
	X, Y float32
}

// ConfigureSnap sets the pixel grid DrawText rounds target_pos to before
// walking a shaped run. A value of 0 on either axis disables snapping on
// that axis. Snap never touches a shaped run's cached pen positions — only
// the per-call target_pos — so the same run can be drawn snapped or
// unsnapped without reshaping (SPEC_FULL.md §12, "snap affects kerning").
func (c *Cache) ConfigureSnap(snapW, snapH float32) {
	c.snapW, c.snapH = snapW, snapH
}

// SetColour sets the RGBA colour used by every pass-3/pass-4 composite quad
// DrawText emits from now on.
func (c *Cache) SetColour(r, g, b, a float32) {
	c.colour = drawlist.Colour{R: r, G: g, B: b, A: a}
}

// DrawText shapes text against fontID and walks the resulting run,
// maintaining a batch window of composite keys already drawn this window.
// Staging a new glyph that would evict a key already in the window forces
// a flush first: the pending scratch batch is flushed to the atlas, then a
// pass-3 composite quad is emitted for every glyph in the window. Returns
// false only when fontID is invalid or shaping failed; everything else
// (missing glyph, oversize glyph, rejected glyph) is recovered internally
// and never fails the frame (spec.md §7).
func (c *Cache) DrawText(fontID int32, text string, pos Pos, scale float32) bool {
	c.rejections = c.rejections[:0]
	entry, ok := c.fontEntry(fontID)
	if !ok {
		return false
	}

	run, err := c.shapeCache.Shape(fontID, entry.provider, entry.scale, entry.sizePx, text)
	if err != nil {
		Logger().Warn("vefontcache: shaping failed", "font_id", fontID, "error", err)
		c.stats.ShapeMisses++
		return false
	}
	c.stats.ShapeHits++

	if c.snapW > 0 {
		pos.X = float32(math.Floor(float64(pos.X*c.snapW)+0.5)) / c.snapW
	}
	if c.snapH > 0 {
		pos.Y = float32(math.Floor(float64(pos.Y*c.snapH)+0.5)) / c.snapH
	}

	seen := make(map[uint64]bool, 256)
	batchStart := 0

	for i, g := range run.Glyphs {
		gid := entry.provider.FindGlyph(g.Codepoint)
		if gid == 0 {
			c.rejections = append(c.rejections, GlyphRejectedError{FontID: fontID, Codepoint: g.Codepoint, Reason: ReasonNotInFont})
			continue
		}
		if entry.provider.IsGlyphEmpty(gid) {
			continue
		}
		bbox := entry.provider.GlyphBBox(gid)
		region, bw, bh := c.classify(entry, bbox)

		if region == atlas.RegionNone {
			Logger().Warn("vefontcache: glyph rejected, too large for scratch buffer", "codepoint", g.Codepoint)
			c.rejections = append(c.rejections, GlyphRejectedError{FontID: fontID, Codepoint: g.Codepoint, Reason: ReasonTooLargeForScratch})
			continue
		}
		if region == atlas.RegionE {
			Logger().Warn("vefontcache: oversize glyph, drawing uncached", "codepoint", g.Codepoint)
			c.flushWindow(fontID, entry, run, batchStart, i, pos, scale)
			seen = make(map[uint64]bool, 256)
			c.drawOversizeGlyph(entry, gid, bbox, pos.X+g.PenX*scale, pos.Y+g.PenY*scale, scale)
			batchStart = i + 1
			continue
		}

		key := atlas.CompositeKey(fontID, g.Codepoint)
		if _, ok := c.atl.Lookup(region, key); ok {
			seen[key] = true
			continue
		}

		if evictKey, atCapacity := c.atl.WouldEvict(region); atCapacity && seen[evictKey] {
			c.flushWindow(fontID, entry, run, batchStart, i, pos, scale)
			seen = make(map[uint64]bool, 256)
			batchStart = i
		}

		c.stageGlyph(entry, region, key, gid, bbox, bw, bh)
		seen[key] = true
		c.stats.regionFor(region).Misses++
	}

	c.flushWindow(fontID, entry, run, batchStart, len(run.Glyphs), pos, scale)
	return true
}

// classify resolves a glyph's atlas region exactly as spec.md §4.5: padded
// on-atlas size bw,bh from the glyph's unscaled bbox and the font's
// unit->pixel scale, smallest region that fits, or RegionE if it still
// fits the scratch buffer at full resolution, else RegionNone.
func (c *Cache) classify(entry *fontEntry, bbox font.BBox) (region atlas.Region, bw, bh float32) {
	pad := float32(c.cfg.AtlasPadding)
	bw = bbox.Width()*entry.scale + 2*pad
	bh = bbox.Height()*entry.scale + 2*pad
	region = c.atl.Classify(bw, bh, func() bool {
		return bw <= float32(c.cfg.ScratchWidth()) && bh <= float32(c.cfg.ScratchHeight())
	})
	return region, bw, bh
}

// stageGlyph rasterizes one uncached A/B/C/D glyph into the scratch batch,
// flushing first if it would overflow the scratch buffer's remaining
// width, then assigns its atlas slot (evicting the region's LRU victim if
// the region is already at capacity). bw, bh are the glyph's padded
// on-atlas size from classify — the exact sub-rectangle the downsample
// blit must write so a later composite, which samples that same
// sub-rectangle, reads back an unstretched glyph.
func (c *Cache) stageGlyph(entry *fontEntry, region atlas.Region, key uint64, gid font.GlyphIndex, bbox font.BBox, bw, bh float32) {
	segs, err := entry.provider.GlyphShape(gid)
	if err != nil {
		Logger().Warn("vefontcache: failed to load glyph shape", "error", err)
		return
	}

	ox := float32(c.cfg.OversampleX)
	pad := float32(c.cfg.ScratchPadding)
	wScaled := bbox.Width()*entry.scale*ox + 2*pad*ox
	if !c.scratch.Fits(int(math.Ceil(float64(wScaled)))) {
		c.scratch.Flush(c.main)
	}

	slot, evicted := c.atl.Assign(region, key)
	if evicted != key {
		c.stats.regionFor(region).Evictions++
	}
	slotRect := c.atl.SlotRect(region, slot)
	c.scratch.Stage(segs, bbox, entry.scale, slotRect, bw, bh, 0)
	Logger().Debug("vefontcache: staged glyph", "region", region, "slot", slot)
}

// flushWindow flushes any pending scratch batch to the atlas, then emits a
// pass-3 composite quad for every glyph in [start, end) of run against its
// now-resident atlas slot.
func (c *Cache) flushWindow(fontID int32, entry *fontEntry, run shaping.Run, start, end int, pos Pos, scale float32) {
	c.scratch.Flush(c.main)
	for j := start; j < end; j++ {
		g := run.Glyphs[j]
		c.compositeCachedGlyph(entry, fontID, g.Codepoint, pos.X+g.PenX*scale, pos.Y+g.PenY*scale, scale)
	}
}

// compositeCachedGlyph emits a pass-3 quad sampling a glyph's resident
// atlas slot, sized and positioned from the glyph's unscaled bbox, the
// font's unit->pixel scale, and the caller's draw-time scale.
func (c *Cache) compositeCachedGlyph(entry *fontEntry, fontID int32, codepoint rune, targetX, targetY, scale float32) {
	gid := entry.provider.FindGlyph(codepoint)
	if gid == 0 || entry.provider.IsGlyphEmpty(gid) {
		return
	}
	bbox := entry.provider.GlyphBBox(gid)
	region, _, _ := c.classify(entry, bbox)
	if region != atlas.RegionA && region != atlas.RegionB && region != atlas.RegionC && region != atlas.RegionD {
		return
	}

	key := atlas.CompositeKey(fontID, codepoint)
	slot, ok := c.atl.Lookup(region, key)
	if !ok {
		return
	}
	c.stats.regionFor(region).Hits++

	slotRect := c.atl.SlotRect(region, slot)
	pad := float32(c.cfg.AtlasPadding)

	glyphW := bbox.Width()*entry.scale + 2*pad
	glyphH := bbox.Height()*entry.scale + 2*pad

	destX := targetX + bbox.X0*entry.scale*scale - pad*scale
	destY := targetY + bbox.Y0*entry.scale*scale - pad*scale
	destW := glyphW * scale
	destH := glyphH * scale

	atlasW, atlasH := float32(c.cfg.AtlasWidth), float32(c.cfg.AtlasHeight)
	u0 := float32(slotRect.X) / atlasW
	v0 := float32(slotRect.Y) / atlasH
	u1 := (float32(slotRect.X) + glyphW) / atlasW
	v1 := (float32(slotRect.Y) + glyphH) / atlasH

	c.main.EmitQuad(destX, destY, destX+destW, destY+destH, u0, v0, u1, v1, drawlist.PassCompositeCached, 0, c.colour, false)
}

// drawOversizeGlyph renders a region-E glyph directly: it bypasses the
// atlas and scratch batch entirely (no LRU interaction), rasterizing at a
// reduced oversample straight into the scratch buffer's origin, then
// composites from there via a pass-4 draw call before marking the scratch
// buffer for a pre-next-use clear.
func (c *Cache) drawOversizeGlyph(entry *fontEntry, gid font.GlyphIndex, bbox font.BBox, targetX, targetY, scale float32) {
	segs, err := entry.provider.GlyphShape(gid)
	if err != nil {
		Logger().Warn("vefontcache: failed to load oversize glyph shape", "error", err)
		return
	}

	pad := float32(c.cfg.AtlasPadding)
	bw := bbox.Width()*entry.scale + 2*pad
	bh := bbox.Height()*entry.scale + 2*pad

	over := float32(2)
	if !(bw <= float32(c.cfg.ScratchWidth())/2 && bh <= float32(c.cfg.ScratchHeight())/2) {
		over = 1
	}

	scratchPad := float32(c.cfg.ScratchPadding)
	scaleXY := entry.scale * over
	translateX := float32(math.Ceil(float64(-bbox.X0*scaleXY + scratchPad)))
	translateY := float32(math.Ceil(float64(-bbox.Y0*scaleXY + scratchPad)))

	scratchList := drawlist.New()
	c.ts.Glyph(scratchList, segs, bbox, scaleXY, scaleXY, translateX, translateY)
	c.main.Merge(scratchList)

	glyphWScratch := bbox.Width()*scaleXY + 2*scratchPad
	glyphHScratch := bbox.Height()*scaleXY + 2*scratchPad
	u1 := glyphWScratch / float32(c.cfg.ScratchWidth())
	v1 := glyphHScratch / float32(c.cfg.ScratchHeight())

	destW := bw * scale
	destH := bh * scale
	destX := targetX + bbox.X0*entry.scale*scale - pad*scale
	destY := targetY + bbox.Y0*entry.scale*scale - pad*scale

	c.main.EmitQuad(destX, destY, destX+destW, destY+destH, 0, 0, u1, v1, drawlist.PassCompositeUncached, 0, c.colour, false)
	c.main.EmitEmptyMarker(drawlist.PassRasterizeGlyph)
}
