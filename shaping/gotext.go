package shaping

import (
	"bytes"
	"errors"
	"sync"

	"github.com/go-text/typesetting/di"
	gotextfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	gotextshaping "github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/hypernewbie/VEFontCache/font"
)

// ErrNotRawFont is returned when a GoTextShaper is asked to shape against a
// font.Provider that does not implement font.Rawer.
var ErrNotRawFont = errors.New("shaping: provider does not expose raw font bytes")

// GoTextShaper shapes text using github.com/go-text/typesetting's HarfBuzz
// port, giving real kerning, ligatures, and script-aware positioning in
// place of BuiltinShaper's advance-only walk. It satisfies the same Shaper
// capability set, so the orchestrator does not need to know which variant
// it is driving.
//
// GoTextShaper caches parsed go-text font.Font objects (read-only, safe to
// share) keyed by the font.Provider they were parsed from; it does not
// hold any cache state belonging to the glyph cache itself, keeping with
// the "no global singleton" design note — callers own a GoTextShaper
// instance and pass it into the cache explicitly.
type GoTextShaper struct {
	shaperPool sync.Pool

	mu        sync.Mutex
	fontCache map[font.Provider]*gotextfont.Font
}

// NewGoTextShaper returns a GoTextShaper ready to use.
func NewGoTextShaper() *GoTextShaper {
	return &GoTextShaper{
		shaperPool: sync.Pool{
			New: func() any { return &gotextshaping.HarfbuzzShaper{} },
		},
		fontCache: make(map[font.Provider]*gotextfont.Font),
	}
}

func (s *GoTextShaper) Shape(p font.Provider, scale, sizePx float32, text string) (Run, error) {
	if text == "" {
		return Run{}, nil
	}

	goFont, err := s.getOrParse(p)
	if err != nil {
		return Run{}, err
	}
	face := gotextfont.NewFace(goFont)

	runes := []rune(text)
	script := detectScript(runes)

	input := gotextshaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR, // complex-script/RTL fallback support is an explicit non-goal
		Face:      face,
		Size:      fixed.Int26_6(absf(sizePx) * 64),
		Script:    script,
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*gotextshaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	return convert(output.Glyphs, runes), nil
}

func (s *GoTextShaper) getOrParse(p font.Provider) (*gotextfont.Font, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fontCache[p]; ok {
		return f, nil
	}

	rawer, ok := p.(font.Rawer)
	if !ok {
		return nil, ErrNotRawFont
	}

	face, err := gotextfont.ParseTTF(bytes.NewReader(rawer.RawBytes()))
	if err != nil {
		return nil, err
	}
	s.fontCache[p] = face.Font
	return face.Font, nil
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// convert maps go-text's shaped glyphs back to spec.md §4.7's
// (codepoint, position) output contract. go-text's Input.Text is exactly
// the []rune slice that was shaped, so each glyph's cluster index refers
// back into runes directly; a glyph with no 1:1 codepoint mapping
// (ligatures, reordering) still gets the representative codepoint at its
// cluster start, since the contract does not model glyph/codepoint
// fan-out — the atlas still caches by that codepoint, so a ligature is
// re-shaped (not re-rasterized-as-one-glyph) on every occurrence, which is
// an acceptable accuracy/simplicity tradeoff for the fallback-compatible
// contract this interface guarantees.
func convert(glyphs []gotextshaping.Glyph, runes []rune) Run {
	run := Run{Glyphs: make([]Glyph, 0, len(glyphs))}
	var x, y float32
	for _, g := range glyphs {
		xOff := fixedToFloat32(g.XOffset)
		yOff := fixedToFloat32(g.YOffset)

		cp := rune(0)
		if idx := g.TextIndex(); idx >= 0 && idx < len(runes) {
			cp = runes[idx]
		}

		run.Glyphs = append(run.Glyphs, Glyph{
			Codepoint: cp,
			PenX:      x + xOff,
			PenY:      y + yOff,
		})
		x += fixedToFloat32(g.Advance)
	}
	return run
}

func fixedToFloat32(v fixed.Int26_6) float32 { return float32(v) / 64 }
