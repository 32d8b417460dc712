package vefontcache

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrFontLoadFailed is returned by Load/LoadFile when the supplied
	// bytes or file could not be parsed as a font.
	ErrFontLoadFailed = errors.New("vefontcache: font load failed")

	// ErrInvalidFontID is returned by RemoveFont when the font id does not
	// refer to a currently loaded font. DrawText reports the same case by
	// returning false.
	ErrInvalidFontID = errors.New("vefontcache: invalid font id")

	// ErrShapingFailed names the case where the configured shaper could
	// not produce a shaped run for the given text. DrawText reports that
	// case by returning false and does not return this error.
	ErrShapingFailed = errors.New("vefontcache: shaping failed")
)

// GlyphRejectedReason explains why a single glyph was silently skipped
// during a draw_text walk. Per spec.md §7, these never fail the frame —
// they are surfaced only through GlyphRejectedError for diagnostics
// callers that want it; ReasonTooLargeForScratch rejections are also
// logged at Warn.
type GlyphRejectedReason int

const (
	// ReasonNotInFont: the codepoint has no glyph in the font.
	ReasonNotInFont GlyphRejectedReason = iota
	// ReasonTooLargeForScratch: the glyph doesn't fit any region, even E.
	ReasonTooLargeForScratch
)

func (r GlyphRejectedReason) String() string {
	switch r {
	case ReasonNotInFont:
		return "glyph not in font"
	case ReasonTooLargeForScratch:
		return "glyph too large for scratch buffer"
	default:
		return "unknown"
	}
}

// GlyphRejectedError carries structured detail about a skipped glyph.
type GlyphRejectedError struct {
	FontID    int32
	Codepoint rune
	Reason    GlyphRejectedReason
}

func (e *GlyphRejectedError) Error() string {
	return fmt.Sprintf("vefontcache: glyph rejected (font=%d codepoint=%q): %s", e.FontID, e.Codepoint, e.Reason)
}
