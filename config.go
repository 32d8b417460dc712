package vefontcache

// RegionConfig describes one atlas region: its slot size and its pixel
// rectangle within the atlas texture. XCapacity/YCapacity/Capacity are
// derived from Width/Height/XSize/YSize the way the original's
// VE_FONTCACHE_ATLAS_REGION_*_XCAPACITY defines are.
type RegionConfig struct {
	Width, Height    int // slot size, pixels
	XSize, YSize     int // region size within the atlas, pixels
	XOffset, YOffset int
}

func (r RegionConfig) XCapacity() int { return r.XSize / r.Width }
func (r RegionConfig) YCapacity() int { return r.YSize / r.Height }
func (r RegionConfig) Capacity() int  { return r.XCapacity() * r.YCapacity() }

// Config holds every tunable the original header fixed at compile time via
// #define. DefaultConfig returns the literal values spec.md §3/§4 require.
type Config struct {
	AtlasWidth, AtlasHeight int
	AtlasPadding            int

	RegionA, RegionB, RegionC, RegionD RegionConfig

	OversampleX, OversampleY int
	ScratchBatchCount        int
	ScratchPadding           int

	ShapeCacheCapacity      int
	ShapeCacheReserveLength int
	ShapeCacheMaxLength     int

	CurveQuality int

	// SmallFontSnapThreshold records the nominal pixel size at or below
	// which the fallback shaper rounds pen.x up to the next integer. The
	// cache does not pass it to the shaper: shaping.BuiltinShaper always
	// uses its own shaping.SnapThreshold constant, so changing this field
	// has no effect on shaping.
	SmallFontSnapThreshold float32
}

// DefaultConfig returns the constants the original header fixes at compile
// time, cross-checked against VE_FONTCACHE_* defines.
func DefaultConfig() Config {
	atlasWidth, atlasHeight := 4096, 2048

	regionA := RegionConfig{Width: 32, Height: 32, XSize: atlasWidth / 4, YSize: atlasHeight / 2, XOffset: 0, YOffset: 0}
	regionB := RegionConfig{Width: 32, Height: 64, XSize: atlasWidth / 4, YSize: atlasHeight / 2, XOffset: 0, YOffset: regionA.YSize}
	regionC := RegionConfig{Width: 64, Height: 64, XSize: atlasWidth / 4, YSize: atlasHeight, XOffset: regionA.XSize, YOffset: 0}
	regionD := RegionConfig{Width: 128, Height: 128, XSize: atlasWidth / 2, YSize: atlasHeight, XOffset: atlasWidth / 2, YOffset: 0}

	const oversampleX, oversampleY, batchCount = 4, 4, 4
	const atlasPadding = 1

	return Config{
		AtlasWidth:   atlasWidth,
		AtlasHeight:  atlasHeight,
		AtlasPadding: atlasPadding,

		RegionA: regionA,
		RegionB: regionB,
		RegionC: regionC,
		RegionD: regionD,

		OversampleX:       oversampleX,
		OversampleY:       oversampleY,
		ScratchBatchCount: batchCount,
		ScratchPadding:    atlasPadding,

		ShapeCacheCapacity:      256,
		ShapeCacheReserveLength: 64,
		ShapeCacheMaxLength:     256,

		CurveQuality: 6,

		SmallFontSnapThreshold: 12,
	}
}

// withDefaults fills any zero-valued field of c from DefaultConfig, so
// callers can override only the tunables they care about.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AtlasWidth == 0 {
		c.AtlasWidth = d.AtlasWidth
	}
	if c.AtlasHeight == 0 {
		c.AtlasHeight = d.AtlasHeight
	}
	if c.AtlasPadding == 0 {
		c.AtlasPadding = d.AtlasPadding
	}
	if c.RegionA.Width == 0 {
		c.RegionA = d.RegionA
	}
	if c.RegionB.Width == 0 {
		c.RegionB = d.RegionB
	}
	if c.RegionC.Width == 0 {
		c.RegionC = d.RegionC
	}
	if c.RegionD.Width == 0 {
		c.RegionD = d.RegionD
	}
	if c.OversampleX == 0 {
		c.OversampleX = d.OversampleX
	}
	if c.OversampleY == 0 {
		c.OversampleY = d.OversampleY
	}
	if c.ScratchBatchCount == 0 {
		c.ScratchBatchCount = d.ScratchBatchCount
	}
	if c.ScratchPadding == 0 {
		c.ScratchPadding = d.ScratchPadding
	}
	if c.ShapeCacheCapacity == 0 {
		c.ShapeCacheCapacity = d.ShapeCacheCapacity
	}
	if c.ShapeCacheReserveLength == 0 {
		c.ShapeCacheReserveLength = d.ShapeCacheReserveLength
	}
	if c.ShapeCacheMaxLength == 0 {
		c.ShapeCacheMaxLength = d.ShapeCacheMaxLength
	}
	if c.CurveQuality == 0 {
		c.CurveQuality = d.CurveQuality
	}
	if c.SmallFontSnapThreshold == 0 {
		c.SmallFontSnapThreshold = d.SmallFontSnapThreshold
	}
	return c
}

// ScratchWidth returns GDW: region D's width times oversample times batch count.
func (c Config) ScratchWidth() int {
	return c.RegionD.Width * c.OversampleX * c.ScratchBatchCount
}

// ScratchHeight returns GDH: region D's height times oversample.
func (c Config) ScratchHeight() int {
	return c.RegionD.Height * c.OversampleY
}
