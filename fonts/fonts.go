// Package fonts provides font resources and metrics for watermark text.
//
// Watermarks use the standard PDF text fonts by default, which render in all
// PDF viewers without embedding. TrueType data can be attached for custom
// faces; its metrics are parsed for accurate text measurement.
package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Family selects one of the standard PDF font families.
type Family int

const (
	// Helvetica is the standard sans-serif family.
	Helvetica Family = iota
	// Times is the standard serif family.
	Times
	// Courier is the standard monospace family.
	Courier
)

// Style is a bitmask of text style flags.
type Style uint8

const (
	// Bold selects the bold face of the family.
	Bold Style = 1 << iota
	// Italic selects the italic or oblique face of the family.
	Italic
	// Underline draws a rule below the text. It does not change the face.
	Underline
	// StrikeThrough draws a rule through the text. It does not change the face.
	StrikeThrough
)

// Regular is the zero style.
const Regular Style = 0

// faceNames maps family and face-changing style bits to standard font names.
var faceNames = map[Family][4]string{
	Helvetica: {"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
	Times:     {"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic"},
	Courier:   {"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique"},
}

// ParseFamily parses a family keyword.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "", "helvetica", "Helvetica":
		return Helvetica, nil
	case "times", "Times":
		return Times, nil
	case "courier", "Courier":
		return Courier, nil
	default:
		return Helvetica, fmt.Errorf("unknown font family: %q (valid: helvetica, times, courier)", s)
	}
}

// Font represents a font resource referenced by watermark text.
type Font struct {
	Name     string   // PostScript name of the face
	Data     []byte   // TrueType font data (nil for standard fonts)
	Embedded bool     // whether the face must be embedded in the output
	Metrics  *Metrics // parsed metrics for text measurement
}

// Resolve returns the standard face for a family and style. Bold and Italic
// select the face; Underline and StrikeThrough are decorations drawn by the
// renderer and leave the face unchanged.
func Resolve(f Family, s Style) *Font {
	names, ok := faceNames[f]
	if !ok {
		names = faceNames[Helvetica]
	}
	idx := 0
	if s&Bold != 0 {
		idx |= 1
	}
	if s&Italic != 0 {
		idx |= 2
	}
	return &Font{Name: names[idx]}
}

// ParseTTF builds an embedded Font from TrueType data, parsing its glyph
// metrics for accurate measurement.
func ParseTTF(name string, data []byte) (*Font, error) {
	m, err := ParseTTFMetrics(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TrueType font: %w", err)
	}
	return &Font{Name: name, Data: data, Embedded: true, Metrics: m}, nil
}

// StringWidth returns the advance width of text at the given size in points.
// Standard faces without parsed metrics use the common approximation of half
// the font size per character.
func (f *Font) StringWidth(text string, size float64) float64 {
	if f.Metrics != nil {
		return f.Metrics.StringWidth(text, size)
	}
	return float64(len(text)) * size * 0.5
}

// Metrics contains parsed font metrics for accurate text measurement.
type Metrics struct {
	UnitsPerEm  int
	GlyphWidths map[rune]int // advance widths in font units
}

// ParseTTFMetrics parses a TrueType font file and extracts glyph metrics for
// the WinAnsi character range.
func ParseTTFMetrics(data []byte) (*Metrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}

	unitsPerEm := f.UnitsPerEm()

	glyphWidths := make(map[rune]int)
	var buf sfnt.Buffer

	// Use unitsPerEm as the ppem so advances come back in font units.
	ppem := fixed.Int26_6(unitsPerEm) << 6

	for r := rune(32); r <= rune(255); r++ {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}

		advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}

		glyphWidths[r] = int(advance >> 6)
	}

	return &Metrics{
		UnitsPerEm:  int(unitsPerEm),
		GlyphWidths: glyphWidths,
	}, nil
}

// StringWidth calculates the width of a string in points at the given size.
func (m *Metrics) StringWidth(text string, size float64) float64 {
	if m == nil || m.UnitsPerEm == 0 {
		return float64(len(text)) * size * 0.5
	}

	var total int
	for _, r := range text {
		if w, ok := m.GlyphWidths[r]; ok {
			total += w
		} else {
			total += m.UnitsPerEm / 2
		}
	}

	return (float64(total) / float64(m.UnitsPerEm)) * size
}

// WidthsArray returns the /Widths array for an embedded TrueType font
// dictionary (FirstChar=32, LastChar=255), scaled to 1000 units per em.
func (m *Metrics) WidthsArray() []int {
	widths := make([]int, 256-32)
	defaultWidth := 500

	if m != nil && m.UnitsPerEm > 0 {
		scale := 1000.0 / float64(m.UnitsPerEm)
		defaultWidth = int(float64(m.UnitsPerEm/2) * scale)

		for i := 32; i < 256; i++ {
			if w, ok := m.GlyphWidths[rune(i)]; ok {
				widths[i-32] = int(float64(w) * scale)
			} else {
				widths[i-32] = defaultWidth
			}
		}
		return widths
	}

	for i := range widths {
		widths[i] = defaultWidth
	}
	return widths
}
