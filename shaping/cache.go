package shaping

import (
	"github.com/hypernewbie/VEFontCache/font"
	"github.com/hypernewbie/VEFontCache/internal/lru"
)

// elfHashSeed is the arbitrary non-zero seed the original hashes text
// against; kept so hash values stay consistent with a known-good reference
// rather than picking an arbitrary seed of our own.
const elfHashSeed uint64 = 0x9f8e00d51d263c24

// elfHash64 is the 64-bit ELF-style rolling hash used to key the shape
// cache: four bits of each input byte are folded in per step, with any
// overflow into the top nibble xored back down before being masked off.
func elfHash64(hash uint64, data []byte) uint64 {
	for _, b := range data {
		hash = (hash << 4) + uint64(b)
		if x := hash & 0xF000000000000000; x != 0 {
			hash ^= x >> 24
			hash &^= x
		}
	}
	return hash
}

// HashKey computes the shape cache key for (fontID, text): an ELF-style
// hash folding in the text bytes, then the font id's bytes.
func HashKey(fontID int32, text string) uint64 {
	hash := elfHash64(elfHashSeed, []byte(text))
	fontIDBytes := [4]byte{
		byte(fontID), byte(fontID >> 8), byte(fontID >> 16), byte(fontID >> 24),
	}
	return elfHash64(hash, fontIDBytes[:])
}

// Cache is a fixed-capacity LRU over shaped runs, keyed by HashKey. On a
// miss it shapes into the next free slot (or the LRU-predicted evictee's
// slot) and stores the result there; on a hit it returns the stored run
// without reshaping — shape(font, text) therefore returns the same
// (codepoints, positions) regardless of hit or miss.
type Cache struct {
	lru     *lru.LRU
	storage []Run
	next    int32
	shaper  Shaper
}

// NewCache returns a shape cache with room for capacity entries, each
// reserving room for reserveLen glyphs up front, shaping misses with
// shaper.
func NewCache(capacity, reserveLen int, shaper Shaper) *Cache {
	storage := make([]Run, capacity)
	for i := range storage {
		storage[i].Glyphs = make([]Glyph, 0, reserveLen)
	}
	return &Cache{
		lru:     lru.New(capacity),
		storage: storage,
		shaper:  shaper,
	}
}

// Shape returns the shaped run for (fontID, text), shaping it only on a
// cache miss.
func (c *Cache) Shape(fontID int32, p font.Provider, scale, sizePx float32, text string) (Run, error) {
	key := HashKey(fontID, text)

	idx := c.lru.Get(key)
	if idx == lru.NoValue {
		run, err := c.shaper.Shape(p, scale, sizePx, text)
		if err != nil {
			return Run{}, err
		}
		if int(c.next) < c.lru.Cap() {
			idx = c.next
			c.next++
			c.lru.Put(key, idx)
		} else {
			evictKey, _ := c.lru.NextEvicted()
			idx = c.lru.Peek(evictKey)
			c.lru.Put(key, idx)
		}
		c.storage[idx] = run
	}

	return c.storage[idx], nil
}
