package vefontcache

import (
	"fmt"
	"os"

	"github.com/hypernewbie/VEFontCache/drawlist"
	"github.com/hypernewbie/VEFontCache/font"
)

// Load parses data as a font and registers it, returning a stable font id.
// sizePx is the font's signed nominal pixel size: negative selects
// scale-for-pixel-height (the ascent-to-descent span maps to |sizePx|
// pixels), positive selects scale-for-em (one em maps to sizePx pixels),
// matching the sign convention ve_fontcache.h uses to choose between
// stbtt_ScaleForPixelHeight and stbtt_ScaleForMappingEmToPixels. data is
// not copied: the font keeps reading from it, so the caller must keep it
// unmodified for as long as the font stays loaded. Returns -1 and a
// wrapped ErrFontLoadFailed on failure.
func (c *Cache) Load(data []byte, sizePx float32) (int32, error) {
	provider, err := font.NewSFNTProvider(data)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
	}

	scale := scaleForNominalSize(provider, sizePx)
	id := c.allocFontSlot()
	c.fonts[id] = fontEntry{used: true, provider: provider, sizePx: sizePx, scale: scale}
	Logger().Info("vefontcache: font loaded", "font_id", id, "size_px", sizePx)
	return id, nil
}

// LoadFile reads path and loads it the same way as Load.
func (c *Cache) LoadFile(path string, sizePx float32) (int32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
	}
	return c.Load(data, sizePx)
}

// RemoveFont releases fontID's entry slot for reuse by a later Load call.
// Any atlas or shape-cache entries keyed by fontID are left to expire
// normally through their own LRU — RemoveFont performs no cross-structure
// cascade-delete, matching ve_fontcache.h's free-slot vector and keeping
// the single-threaded, no-suspension resource model of spec.md §5 intact
// (SPEC_FULL.md §12, "Font removal").
func (c *Cache) RemoveFont(fontID int32) error {
	if fontID < 0 || int(fontID) >= len(c.fonts) || !c.fonts[fontID].used {
		return ErrInvalidFontID
	}
	c.fonts[fontID] = fontEntry{}
	c.freeFonts = append(c.freeFonts, fontID)
	return nil
}

func (c *Cache) allocFontSlot() int32 {
	if n := len(c.freeFonts); n > 0 {
		id := c.freeFonts[n-1]
		c.freeFonts = c.freeFonts[:n-1]
		return id
	}
	c.fonts = append(c.fonts, fontEntry{})
	return int32(len(c.fonts) - 1)
}

// fontEntry returns the entry for fontID, or ok == false if fontID does
// not refer to a currently loaded font.
func (c *Cache) fontEntry(fontID int32) (*fontEntry, bool) {
	if fontID < 0 || int(fontID) >= len(c.fonts) || !c.fonts[fontID].used {
		return nil, false
	}
	return &c.fonts[fontID], true
}

// scaleForNominalSize picks stbtt_ScaleForPixelHeight or
// stbtt_ScaleForMappingEmToPixels depending on the sign of sizePx.
func scaleForNominalSize(p font.Provider, sizePx float32) float32 {
	if sizePx < 0 {
		return p.ScaleForPixelHeight(-sizePx)
	}
	return p.ScaleForEm(sizePx)
}

// GetDrawList returns the main per-frame draw list. Valid to read and hand
// to the backend after all desired DrawText calls for the frame; call
// FlushDrawlist before issuing further DrawText calls for the next frame.
func (c *Cache) GetDrawList() *drawlist.List {
	return c.main
}

// OptimiseDrawlist merges adjacent draw calls in the main draw list that
// share pass, region, and colour and whose index ranges are contiguous
// (spec.md §4.9). Call after all DrawText calls for the frame, before
// handing the list to the backend.
func (c *Cache) OptimiseDrawlist() {
	c.main.Optimize()
}

// FlushDrawlist clears the main draw list for the next frame. Call after
// the backend has consumed GetDrawList's result.
func (c *Cache) FlushDrawlist() {
	c.main.Reset()
}

// Stats returns a snapshot of hit/miss/eviction counters accumulated since
// the cache was created, per atlas region plus the shape cache. Not
// present in ve_fontcache.h; an idiomatic addition with no spec conflict
// (SPEC_FULL.md §12, "Cache statistics").
func (c *Cache) Stats() Stats {
	return c.stats
}

// Rejections returns the glyphs the most recent DrawText call skipped, with
// structured detail about why. DrawText's boolean return never reflects a
// per-glyph rejection (spec.md §7); this is the diagnostics channel for a
// caller that wants to know anyway, e.g. to report missing glyphs in a font
// audit tool. The slice is reset at the start of every DrawText call.
func (c *Cache) Rejections() []GlyphRejectedError {
	return c.rejections
}
