package font

import (
	"fmt"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTProvider implements Provider over a parsed TrueType/OpenType font via
// golang.org/x/image/font/sfnt.
//
// SFNTProvider is not safe for concurrent use: it owns a single reusable
// sfnt.Buffer, matching the cache's single-threaded resource model.
type SFNTProvider struct {
	addr       *SFNTProvider // see copyCheck
	font       *sfnt.Font
	buf        sfnt.Buffer
	unitsPerEm fixed.Int26_6
	raw        []byte
}

// NewSFNTProvider parses font data (a single TrueType or OpenType font) and
// returns a Provider backed by it. Font collections (TTC/OTC) are not
// accepted. data is retained, not copied.
func NewSFNTProvider(data []byte) (*SFNTProvider, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
	}
	p := &SFNTProvider{font: f, raw: data}
	units := f.UnitsPerEm()
	p.unitsPerEm = fixed.I(int(units))
	p.addr = p
	return p, nil
}

// copyCheck panics if the provider was copied by value after first use,
// which would duplicate its mutable sfnt.Buffer and desynchronize it from
// the *sfnt.Font it reads through.
func (p *SFNTProvider) copyCheck() {
	if p.addr != p {
		panic("font: illegal use of SFNTProvider copied by value")
	}
}

func (p *SFNTProvider) FindGlyph(codepoint rune) GlyphIndex {
	p.copyCheck()
	gid, err := p.font.GlyphIndex(&p.buf, codepoint)
	if err != nil {
		return 0
	}
	return GlyphIndex(gid)
}

func (p *SFNTProvider) IsGlyphEmpty(gid GlyphIndex) bool {
	p.copyCheck()
	segs, err := p.font.LoadGlyph(&p.buf, sfnt.GlyphIndex(gid), p.unitsPerEm, nil)
	if err != nil {
		return true
	}
	return len(segs) == 0
}

func (p *SFNTProvider) GlyphBBox(gid GlyphIndex) BBox {
	p.copyCheck()
	segs, err := p.font.LoadGlyph(&p.buf, sfnt.GlyphIndex(gid), p.unitsPerEm, nil)
	if err != nil || len(segs) == 0 {
		return BBox{}
	}
	minX, minY := float32(1e9), float32(1e9)
	maxX, maxY := float32(-1e9), float32(-1e9)
	for _, seg := range segs {
		n := segPointCount(seg.Op)
		for i := 0; i < n; i++ {
			x, y := fixedToFloat(seg.Args[i])
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	return BBox{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
}

func (p *SFNTProvider) GlyphShape(gid GlyphIndex) ([]Segment, error) {
	p.copyCheck()
	raw, err := p.font.LoadGlyph(&p.buf, sfnt.GlyphIndex(gid), p.unitsPerEm, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Segment, 0, len(raw))
	for _, seg := range raw {
		var s Segment
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			s.Op = SegmentMoveTo
			s.X, s.Y = fixedToFloat(seg.Args[0])
		case sfnt.SegmentOpLineTo:
			s.Op = SegmentLineTo
			s.X, s.Y = fixedToFloat(seg.Args[0])
		case sfnt.SegmentOpQuadTo:
			s.Op = SegmentQuadTo
			s.CX, s.CY = fixedToFloat(seg.Args[0])
			s.X, s.Y = fixedToFloat(seg.Args[1])
		case sfnt.SegmentOpCubeTo:
			s.Op = SegmentCubicTo
			s.CX, s.CY = fixedToFloat(seg.Args[0])
			s.CX1, s.CY1 = fixedToFloat(seg.Args[1])
			s.X, s.Y = fixedToFloat(seg.Args[2])
		default:
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *SFNTProvider) VMetrics() VMetrics {
	p.copyCheck()
	m, err := p.font.Metrics(&p.buf, p.unitsPerEm, xfont.HintingNone)
	if err != nil {
		return VMetrics{}
	}
	ascent := floatFromFixed(m.Ascent)
	// sfnt reports descent as a positive distance below the baseline;
	// VMetrics uses the negative-below-baseline convention that
	// ScaleForPixelHeight and the fallback shaper's line advance expect.
	descent := -floatFromFixed(m.Descent)
	gap := floatFromFixed(m.Height - m.Ascent - m.Descent)
	return VMetrics{Ascent: ascent, Descent: descent, LineGap: gap}
}

func (p *SFNTProvider) HMetrics(codepoint rune) (advance, lsb float32) {
	p.copyCheck()
	gid, err := p.font.GlyphIndex(&p.buf, codepoint)
	if err != nil || gid == 0 {
		return 0, 0
	}
	adv, err := p.font.GlyphAdvance(&p.buf, gid, p.unitsPerEm, xfont.HintingNone)
	if err != nil {
		return 0, 0
	}
	bbox := p.GlyphBBox(GlyphIndex(gid))
	return floatFromFixed(adv), bbox.X0
}

func (p *SFNTProvider) Kern(prev, cur rune) int32 {
	p.copyCheck()
	g1, err1 := p.font.GlyphIndex(&p.buf, prev)
	g2, err2 := p.font.GlyphIndex(&p.buf, cur)
	if err1 != nil || err2 != nil || g1 == 0 || g2 == 0 {
		return 0
	}
	k, err := p.font.Kern(&p.buf, g1, g2, p.unitsPerEm, xfont.HintingNone)
	if err != nil {
		return 0
	}
	return int32(floatFromFixed(k))
}

// ScaleForPixelHeight returns the scale mapping font units to pixels such
// that the font's ascent-to-descent span equals px pixels, matching
// stbtt_ScaleForPixelHeight's contract (invoked for a negative nominal size
// in the original source).
func (p *SFNTProvider) ScaleForPixelHeight(px float32) float32 {
	v := p.VMetrics()
	span := v.Ascent - v.Descent
	if span == 0 {
		return 0
	}
	return px / span
}

// ScaleForEm returns the scale mapping font units to pixels such that one
// em equals px pixels, matching stbtt_ScaleForMappingEmToPixels.
func (p *SFNTProvider) ScaleForEm(px float32) float32 {
	units := floatFromFixed(p.unitsPerEm)
	if units == 0 {
		return 0
	}
	return px / units
}

// RawBytes returns the original font bytes this provider was parsed from.
// It implements font.Rawer, letting shapers that need their own parse of
// the same data (e.g. the go-text/typesetting real shaper) get at it
// without the Provider interface needing to expose a byte buffer itself.
func (p *SFNTProvider) RawBytes() []byte {
	p.copyCheck()
	return p.raw
}

func segPointCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpMoveTo, sfnt.SegmentOpLineTo:
		return 1
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 0
	}
}

func fixedToFloat(p fixed.Point26_6) (x, y float32) {
	return float32(p.X) / 64, float32(p.Y) / 64
}

func floatFromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
