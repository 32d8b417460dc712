// Package vefontcache implements a GPU-resident font glyph cache: given
// loaded font outlines and UTF-8 text, it produces a self-describing draw
// list a graphics backend can execute without the cache ever touching a
// texture directly. See atlas, drawlist, shaping, and font for the pieces
// this package wires together.
package vefontcache

import (
	"github.com/hypernewbie/VEFontCache/atlas"
	"github.com/hypernewbie/VEFontCache/drawlist"
	"github.com/hypernewbie/VEFontCache/font"
	"github.com/hypernewbie/VEFontCache/internal/glyphbuf"
	"github.com/hypernewbie/VEFontCache/internal/tessellate"
	"github.com/hypernewbie/VEFontCache/shaping"
)

// fontEntry is one slot of the font-entry free-slot vector (spec.md §3):
// a stable id, the caller's outline provider, and the entry's nominal size
// and derived unit->pixel scale. Immutable after creation except for used.
type fontEntry struct {
	used     bool
	provider font.Provider
	sizePx   float32
	scale    float32
}

// Stats is a read-only snapshot of cache hit/miss/eviction counters, one
// set per atlas region plus the shape cache. Not present in the original
// header; an idiomatic addition with no spec conflict (SPEC_FULL.md §12).
// Counters are plain (not atomic): the cache is single-threaded by design
// (spec.md §5), so atomics here would promise a safety the rest of the
// design does not provide.
type Stats struct {
	RegionA, RegionB, RegionC, RegionD RegionStats
	ShapeHits, ShapeMisses             uint64
}

// RegionStats counts hits, misses, and evictions for one atlas region.
type RegionStats struct {
	Hits, Misses, Evictions uint64
}

// regionFor returns the counters for r. Panics on RegionE/RegionNone,
// which never touch a region's LRU and so never accumulate region stats.
func (s *Stats) regionFor(r atlas.Region) *RegionStats {
	switch r {
	case atlas.RegionA:
		return &s.RegionA
	case atlas.RegionB:
		return &s.RegionB
	case atlas.RegionC:
		return &s.RegionC
	case atlas.RegionD:
		return &s.RegionD
	default:
		panic("vefontcache: regionFor called with a non-atlas region")
	}
}

// Cache is the cache's entire state, threaded through the public API as a
// value — the source's process-wide singleton is deliberately not
// reproduced (spec.md §9 "Forbidden global state"). Cache is not safe for
// concurrent use; see spec.md §5.
type Cache struct {
	cfg Config

	atl     *atlas.Atlas
	scratch *glyphbuf.Batch
	ts      *tessellate.Tessellator

	shapeCache *shaping.Cache

	main *drawlist.List

	fonts     []fontEntry
	freeFonts []int32

	snapW, snapH float32
	colour       drawlist.Colour

	stats      Stats
	rejections []GlyphRejectedError
}

// New constructs a ready-to-use Cache from cfg (zero fields filled from
// DefaultConfig) and shaper (the C7 shaper variant to use for fallback or
// real shaping; nil selects shaping.BuiltinShaper{}). Unlike the source's
// init-after-construct C idiom, New leaves the cache immediately usable;
// Init exists only for facade symmetry with Shutdown.
func New(cfg Config, shaper shaping.Shaper) *Cache {
	cfg = cfg.withDefaults()
	if shaper == nil {
		shaper = shaping.BuiltinShaper{}
	}

	spec := atlas.Spec{
		A:       toRegionSpec(cfg.RegionA),
		B:       toRegionSpec(cfg.RegionB),
		C:       toRegionSpec(cfg.RegionC),
		D:       toRegionSpec(cfg.RegionD),
		Padding: cfg.AtlasPadding,
	}

	ts := tessellate.New(cfg.CurveQuality)
	params := glyphbuf.Params{
		Width:       cfg.ScratchWidth(),
		Height:      cfg.ScratchHeight(),
		OversampleX: cfg.OversampleX,
		OversampleY: cfg.OversampleY,
		Padding:     cfg.ScratchPadding,
	}

	c := &Cache{
		cfg:        cfg,
		atl:        atlas.New(spec),
		scratch:    glyphbuf.New(params, ts),
		ts:         ts,
		shapeCache: shaping.NewCache(cfg.ShapeCacheCapacity, cfg.ShapeCacheReserveLength, shaper),
		main:       drawlist.New(),
		colour:     drawlist.Colour{R: 1, G: 1, B: 1, A: 1},
	}
	Logger().Info("vefontcache: cache created", "atlas_w", cfg.AtlasWidth, "atlas_h", cfg.AtlasHeight)
	return c
}

func toRegionSpec(r RegionConfig) atlas.RegionSpec {
	return atlas.RegionSpec{
		Width: r.Width, Height: r.Height,
		XSize: r.XSize, YSize: r.YSize,
		XOffset: r.XOffset, YOffset: r.YOffset,
	}
}

// Init is a documented no-op kept for facade symmetry with Shutdown: New
// already performs every allocation the original's init(cache) call made
// separately from construction, so calling Init is optional and never
// required before using c.
func (c *Cache) Init() {}

// Shutdown releases c's draw lists and font-entry table. c must not be used
// afterward except for a fresh call to New.
func (c *Cache) Shutdown() {
	c.main.Reset()
	c.fonts = nil
	c.freeFonts = nil
	Logger().Info("vefontcache: cache shut down")
}
