package render

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/digitorus/pdfmark/fonts"
	"github.com/digitorus/pdfmark/images"
)

// Resources lists what an overlay content stream references, keyed by the
// resource names used in the operators. The document writer binds each name
// to an object it registers in the output file.
type Resources struct {
	// ExtGStates maps a graphics state name to its fill alpha.
	ExtGStates map[string]float64
	Fonts      map[string]*fonts.Font
	Images     map[string]*images.Image
}

// Canvas accumulates the overlay drawing operators for a single page. Every
// draw call is wrapped in its own q/Q pair so alpha and transform state never
// leaks between watermarks. Coordinates are PDF user space relative to the
// media box origin.
type Canvas struct {
	geom PageGeometry
	pol  Policy
	ops  bytes.Buffer
	res  Resources

	alphaNames map[string]string // formatted alpha -> gs name
	fontNames  map[*fonts.Font]string
	imageNames map[string]string // image hash -> xobject name
}

// NewCanvas returns an empty canvas for one page.
func NewCanvas(geom PageGeometry, pol Policy) *Canvas {
	return &Canvas{
		geom: geom,
		pol:  pol,
		res: Resources{
			ExtGStates: make(map[string]float64),
			Fonts:      make(map[string]*fonts.Font),
			Images:     make(map[string]*images.Image),
		},
		alphaNames: make(map[string]string),
		fontNames:  make(map[*fonts.Font]string),
		imageNames: make(map[string]string),
	}
}

// Geometry returns the page geometry the canvas draws against.
func (c *Canvas) Geometry() PageGeometry {
	return c.geom
}

// Policy returns the geometry conventions in effect.
func (c *Canvas) Policy() Policy {
	return c.pol
}

// Empty reports whether nothing has been drawn.
func (c *Canvas) Empty() bool {
	return c.ops.Len() == 0
}

// Resources returns the resource bindings required by the operators.
func (c *Canvas) Resources() Resources {
	return c.res
}

// Ops returns the finished content stream. The whole overlay is wrapped in
// q/Q so any unbalanced graphics state left by the original page content
// cannot affect it, and the media box origin offset is applied once here so
// draw calls can stay box-relative.
func (c *Canvas) Ops() []byte {
	var out bytes.Buffer
	out.WriteString("q\n")
	if c.geom.OriginX != 0 || c.geom.OriginY != 0 {
		fmt.Fprintf(&out, "1 0 0 1 %s %s cm\n", num(c.geom.OriginX), num(c.geom.OriginY))
	}
	out.Write(c.ops.Bytes())
	out.WriteString("Q\n")
	return out.Bytes()
}

// MeasureTextWidth returns the advance width of text in points.
func (c *Canvas) MeasureTextWidth(text string, font *fonts.Font, size float64) float64 {
	return font.StringWidth(text, size)
}

// DrawRect fills a rectangle with the given color and alpha. A nonzero
// rotation is applied about the pivot point.
func (c *Canvas) DrawRect(x, y, w, h float64, color Color, alpha, rotation, pivotX, pivotY float64) {
	gs := c.gsName(alpha)
	c.ops.WriteString("q\n")
	fmt.Fprintf(&c.ops, "/%s gs\n", gs)
	c.writeRotation(rotation, pivotX, pivotY)
	fmt.Fprintf(&c.ops, "%s %s %s rg\n", col(color.R), col(color.G), col(color.B))
	fmt.Fprintf(&c.ops, "%s %s %s %s re f\n", num(x), num(y), num(w), num(h))
	c.ops.WriteString("Q\n")
}

// DrawText draws a single line of text with its first glyph at (x, y).
// A nonzero rotation is applied about the pivot point.
func (c *Canvas) DrawText(x, y float64, text string, font *fonts.Font, size float64, color Color, alpha, rotation, pivotX, pivotY float64) {
	gs := c.gsName(alpha)
	fn := c.fontName(font)

	c.ops.WriteString("q\n")
	fmt.Fprintf(&c.ops, "/%s gs\n", gs)
	c.writeRotation(rotation, pivotX, pivotY)
	c.ops.WriteString("BT\n")
	fmt.Fprintf(&c.ops, "/%s %s Tf\n", fn, num(size))
	fmt.Fprintf(&c.ops, "%s %s %s rg\n", col(color.R), col(color.G), col(color.B))
	fmt.Fprintf(&c.ops, "%s %s Td\n", num(x), num(y))
	fmt.Fprintf(&c.ops, "<%s> Tj\n", hex.EncodeToString(winAnsi(text)))
	c.ops.WriteString("ET\n")
	c.ops.WriteString("Q\n")
}

// DrawLine fills a thin horizontal rule, used for underline and
// strikethrough. It shares the rotation frame of the text it decorates.
func (c *Canvas) DrawLine(x, y, w, thickness float64, color Color, alpha, rotation, pivotX, pivotY float64) {
	gs := c.gsName(alpha)
	c.ops.WriteString("q\n")
	fmt.Fprintf(&c.ops, "/%s gs\n", gs)
	c.writeRotation(rotation, pivotX, pivotY)
	fmt.Fprintf(&c.ops, "%s %s %s rg\n", col(color.R), col(color.G), col(color.B))
	fmt.Fprintf(&c.ops, "%s %s %s %s re f\n", num(x), num(y), num(w), num(thickness))
	c.ops.WriteString("Q\n")
}

// DrawImage places a registered image XObject into the (x, y, w, h)
// rectangle. A nonzero rotation is applied about the pivot point.
func (c *Canvas) DrawImage(x, y, w, h float64, img *images.Image, alpha, rotation, pivotX, pivotY float64) {
	gs := c.gsName(alpha)
	xn := c.imageName(img)

	c.ops.WriteString("q\n")
	fmt.Fprintf(&c.ops, "/%s gs\n", gs)
	c.writeRotation(rotation, pivotX, pivotY)
	fmt.Fprintf(&c.ops, "%s 0 0 %s %s %s cm\n", num(w), num(h), num(x), num(y))
	fmt.Fprintf(&c.ops, "/%s Do\n", xn)
	c.ops.WriteString("Q\n")
}

// writeRotation emits a single cm operator rotating the user space by the
// given angle (degrees, counter-clockwise) about the pivot point.
func (c *Canvas) writeRotation(degrees, px, py float64) {
	if degrees == 0 {
		return
	}
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	e := px - px*cos + py*sin
	f := py - px*sin - py*cos
	fmt.Fprintf(&c.ops, "%s %s %s %s %s %s cm\n", num(cos), num(sin), num(-sin), num(cos), num(e), num(f))
}

// Resource names carry a WM prefix so they cannot collide with names already
// present in the page's own resource dictionary.

func (c *Canvas) gsName(alpha float64) string {
	key := num(alpha)
	if name, ok := c.alphaNames[key]; ok {
		return name
	}
	name := fmt.Sprintf("WMa%d", len(c.alphaNames)+1)
	c.alphaNames[key] = name
	c.res.ExtGStates[name] = alpha
	return name
}

func (c *Canvas) fontName(font *fonts.Font) string {
	if name, ok := c.fontNames[font]; ok {
		return name
	}
	name := fmt.Sprintf("WMf%d", len(c.fontNames)+1)
	c.fontNames[font] = name
	c.res.Fonts[name] = font
	return name
}

func (c *Canvas) imageName(img *images.Image) string {
	if name, ok := c.imageNames[img.Hash]; ok {
		return name
	}
	name := fmt.Sprintf("WMx%d", len(c.imageNames)+1)
	c.imageNames[img.Hash] = name
	c.res.Images[name] = img
	return name
}

// winAnsi encodes text as WinAnsi (CP1252) bytes for a /WinAnsiEncoding
// font. Characters outside the codepage are substituted.
func winAnsi(text string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.Bytes([]byte(text))
	if err != nil {
		return []byte(text)
	}
	return out
}

// num formats a coordinate or factor without exponent notation, trimming
// insignificant zeros so content streams stay compact and deterministic.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = trimZeros(s)
	if s == "-0" {
		return "0"
	}
	return s
}

// col converts an 8-bit color channel to the 0..1 operand range.
func col(v uint8) string {
	return trimZeros(strconv.FormatFloat(float64(v)/255.0, 'f', 4, 64))
}

func trimZeros(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
