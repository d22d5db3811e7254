package lint

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/colornames"
)

// TokenKind identifies what a scanner matched.
type TokenKind int

const (
	// ColorToken is a hex color or a named color keyword.
	ColorToken TokenKind = iota
	// PixelUnitToken is an integer immediately followed by "px".
	PixelUnitToken
)

func (k TokenKind) String() string {
	switch k {
	case ColorToken:
		return "color"
	case PixelUnitToken:
		return "pixel-unit"
	default:
		return "unknown"
	}
}

// Match is one candidate token found in quote-stripped text.
type Match struct {
	// Text is the matched substring exactly as written.
	Text string
	Kind TokenKind
	// Offset is the byte offset of Text in the scanned text.
	Offset int
}

// Scanner finds candidate tokens in quote-stripped text, left to right.
type Scanner interface {
	Scan(text string) []Match
}

var (
	// A hex color is exactly 3 or 6 hex digits; four or five never match.
	hexColorPattern = regexp.MustCompile(`(?i)^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

	colorWordPattern = regexp.MustCompile(`(?i)^[a-z]+$`)

	// Digits, the px unit, then whitespace, ';' or the end of the text.
	pixelPattern = regexp.MustCompile(`(?i)([0-9]+px)(?:[\s;]|$)`)
)

// ColorScanner matches whitespace-bounded hex colors and named colors.
type ColorScanner struct{}

// Scan implements Scanner.
func (ColorScanner) Scan(text string) []Match {
	var matches []Match
	for _, w := range fields(text) {
		if IsColor(w.text) {
			matches = append(matches, Match{Text: w.text, Kind: ColorToken, Offset: w.offset})
		}
	}
	return matches
}

// IsColor reports whether word is a 3/6-digit hex color or a CSS named color.
// Keyword lookup ignores case; "transparent" is not a palette color.
func IsColor(word string) bool {
	if hexColorPattern.MatchString(word) {
		return true
	}
	if !colorWordPattern.MatchString(word) {
		return false
	}
	name := strings.ToLower(word)
	if name == "transparent" {
		return false
	}
	_, ok := colornames.Map[name]
	return ok
}

// PixelScanner matches integer pixel lengths such as 16px.
type PixelScanner struct{}

// Scan implements Scanner.
func (PixelScanner) Scan(text string) []Match {
	var matches []Match
	for _, loc := range pixelPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		// The fractional part of a decimal such as 1.25px is not a length.
		if start > 0 && text[start-1] == '.' {
			continue
		}
		matches = append(matches, Match{Text: text[start:end], Kind: PixelUnitToken, Offset: start})
	}
	return matches
}

// Magnitude returns the integer value of a pixel match ("16px" -> 16).
// Values beyond uint64 saturate to the maximum.
func (m Match) Magnitude() uint64 {
	digits := strings.TrimRightFunc(m.Text, unicode.IsLetter)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return ^uint64(0)
		}
		return 0
	}
	return n
}

type word struct {
	text   string
	offset int
}

// fields splits on whitespace and keeps byte offsets.
func fields(text string) []word {
	var out []word
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, word{text: text[start:i], offset: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, word{text: text[start:], offset: start})
	}
	return out
}
