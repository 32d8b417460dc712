package shaping

import (
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/hypernewbie/VEFontCache/font"
)

// SnapThreshold is the default |size| in pixels at or below which pen.x is
// rounded up to the next integer between glyphs, matching the source's
// small-font snap behavior.
const SnapThreshold = 12

// BuiltinShaper is the dumb, non-portable, unoptimised fallback shaper:
// advance-only positioning plus kerning, a hard linebreak on U+000A, and
// small-font pixel snapping on pen.x — exactly spec.md §4.7's contract.
// It deliberately does not snap pen.y (see DESIGN.md's note on that open
// question) and does not handle RTL or complex scripts (an explicit
// non-goal).
type BuiltinShaper struct{}

func (BuiltinShaper) Shape(p font.Provider, scale, sizePx float32, text string) (Run, error) {
	normalized := norm.NFC.String(text)

	v := p.VMetrics()
	lineAdvance := round32((v.Ascent - v.Descent + v.LineGap) * scale)
	snap := absf(sizePx) <= SnapThreshold

	var run Run
	run.Glyphs = make([]Glyph, 0, len(normalized))

	var penX, penY float32
	var prev rune

	for _, cur := range normalized {
		if prev != 0 {
			penX += float32(p.Kern(prev, cur)) * scale
		}

		if cur == '\n' {
			penX = 0
			penY -= lineAdvance
			prev = 0
			continue
		}

		if snap {
			penX = float32(math.Ceil(float64(penX)))
		}

		run.Glyphs = append(run.Glyphs, Glyph{
			Codepoint: cur,
			PenX:      round32(penX),
			PenY:      penY,
		})

		advance, _ := p.HMetrics(cur)
		penX += advance * scale
		prev = cur
	}

	return run, nil
}

func round32(v float32) float32 { return float32(math.Round(float64(v))) }
func absf(v float32) float32    { return float32(math.Abs(float64(v))) }
