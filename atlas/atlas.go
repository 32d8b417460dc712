// Package atlas implements the four-region static texture-atlas allocator:
// classifying a glyph to a region by its scaled size, assigning and
// evicting slots via a per-region LRU, and computing on-atlas pixel
// rectangles for a (region, slot) pair.
package atlas

import (
	"github.com/hypernewbie/VEFontCache/internal/lru"
)

// Region identifies one of the atlas's four statically-sized regions, or
// the uncached oversize path, or "doesn't fit anywhere".
type Region int

const (
	RegionA Region = iota
	RegionB
	RegionC
	RegionD
	RegionE
	RegionNone
)

// Rect is an on-atlas pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// RegionSpec describes one region's slot size and placement within the
// atlas, matching config.RegionConfig.
type RegionSpec struct {
	Width, Height    int
	XSize, YSize     int
	XOffset, YOffset int
}

// XCapacity and YCapacity return the slot count along each axis; a region
// left zero-valued (Width or Height 0) has no slots.
func (r RegionSpec) XCapacity() int {
	if r.Width == 0 {
		return 0
	}
	return r.XSize / r.Width
}
func (r RegionSpec) YCapacity() int {
	if r.Height == 0 {
		return 0
	}
	return r.YSize / r.Height
}
func (r RegionSpec) Capacity() int { return r.XCapacity() * r.YCapacity() }

// Spec bundles the four region specs plus the global per-glyph padding
// added inside a slot before tessellating into it.
type Spec struct {
	A, B, C, D RegionSpec
	Padding    int
}

// Atlas holds the four per-region LRUs and each region's next-free-slot
// cursor. It does not store pixel data — the cache never touches the
// texture directly, only describes operations against it via draw-call
// tags (spec.md §5).
type Atlas struct {
	spec Spec

	lru      [4]*lru.LRU // indexed by Region A..D
	nextFree [4]int32
}

// New returns an Atlas sized per spec.
func New(spec Spec) *Atlas {
	a := &Atlas{spec: spec}
	a.lru[RegionA] = lru.New(spec.A.Capacity())
	a.lru[RegionB] = lru.New(spec.B.Capacity())
	a.lru[RegionC] = lru.New(spec.C.Capacity())
	a.lru[RegionD] = lru.New(spec.D.Capacity())
	return a
}

func (a *Atlas) regionSpec(r Region) RegionSpec {
	switch r {
	case RegionA:
		return a.spec.A
	case RegionB:
		return a.spec.B
	case RegionC:
		return a.spec.C
	case RegionD:
		return a.spec.D
	default:
		return RegionSpec{}
	}
}

// Classify picks the smallest region that fits a glyph of padded on-atlas
// size (bw, bh), following spec.md §4.5's ordered fit test. oversizeFits
// reports, for the uncached path, whether the glyph fits the scratch
// buffer at 1x or 2x oversample; classify returns RegionE when so, and
// RegionNone (rejected, not drawn) otherwise.
func (a *Atlas) Classify(bw, bh float32, oversizeFits func() bool) Region {
	specA, specB, specC, specD := a.spec.A, a.spec.B, a.spec.C, a.spec.D

	switch {
	case bw <= float32(specA.Width) && bh <= float32(specA.Height):
		return RegionA
	case bw <= float32(specB.Width) && bh <= float32(specB.Height):
		return RegionB
	case bw <= float32(specC.Width) && bh <= float32(specC.Height):
		return RegionC
	case bw <= float32(specD.Width) && bh <= float32(specD.Height):
		return RegionD
	}
	if oversizeFits != nil && oversizeFits() {
		return RegionE
	}
	return RegionNone
}

// CompositeKey builds the 64-bit (font_id << 32) | codepoint key a region's
// LRU is addressed by.
func CompositeKey(fontID int32, codepoint rune) uint64 {
	return uint64(uint32(fontID))<<32 | uint64(uint32(codepoint))
}

// Lookup returns the slot currently assigned to key in region r, promoting
// it to most-recently-used. ok is false if the key is not resident.
func (a *Atlas) Lookup(r Region, key uint64) (slot int32, ok bool) {
	v := a.lru[r].Get(key)
	if v == lru.NoValue {
		return 0, false
	}
	return v, true
}

// WouldEvict reports the key that assigning a new slot in region r would
// evict, and whether the region is at capacity at all (if not, no eviction
// would occur and the returned key is meaningless).
func (a *Atlas) WouldEvict(r Region) (key uint64, atCapacity bool) {
	return a.lru[r].NextEvicted()
}

// Assign installs key into region r at a newly chosen slot: the next free
// slot if the region has room, otherwise the slot of the predicted
// evictee. Returns the assigned slot and the key evicted to make room for
// it, if any (equal to key itself when no eviction occurred).
func (a *Atlas) Assign(r Region, key uint64) (slot int32, evicted uint64) {
	spec := a.regionSpec(r)
	cap := int32(spec.Capacity())

	var target int32
	if a.nextFree[r] < cap {
		target = a.nextFree[r]
		a.nextFree[r]++
	} else {
		evictKey, _ := a.lru[r].NextEvicted()
		target = a.lru[r].Peek(evictKey)
	}
	evicted = a.lru[r].Put(key, target)
	return target, evicted
}

// SlotRect computes the on-atlas pixel rectangle for (region, slot): the
// slot index is integer-divided by the region's X capacity to get
// (row, col), multiplied by the region's slot size, then offset by the
// region's placement within the atlas.
func (a *Atlas) SlotRect(r Region, slot int32) Rect {
	spec := a.regionSpec(r)
	xcap := spec.XCapacity()
	if xcap == 0 {
		return Rect{}
	}
	col := int(slot) % xcap
	row := int(slot) / xcap
	return Rect{
		X: spec.XOffset + col*spec.Width,
		Y: spec.YOffset + row*spec.Height,
		W: spec.Width,
		H: spec.Height,
	}
}

// Len returns the number of slots currently occupied in region r.
func (a *Atlas) Len(r Region) int { return a.lru[r].Len() }

// Capacity returns region r's total slot count.
func (a *Atlas) Capacity(r Region) int { return a.regionSpec(r).Capacity() }
