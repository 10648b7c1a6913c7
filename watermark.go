package pdfmark

import (
	"errors"
	"fmt"
	"os"

	"github.com/digitorus/pdfmark/fonts"
	"github.com/digitorus/pdfmark/images"
	"github.com/digitorus/pdfmark/internal/render"
)

// Position is one of the nine page anchors of a 3x3 grid.
type Position = render.Position

const (
	TopLeft      = render.TopLeft
	TopCenter    = render.TopCenter
	TopRight     = render.TopRight
	MiddleLeft   = render.MiddleLeft
	Center       = render.Center
	MiddleRight  = render.MiddleRight
	BottomLeft   = render.BottomLeft
	BottomCenter = render.BottomCenter
	BottomRight  = render.BottomRight
)

// ParsePosition parses an anchor keyword such as "top-left" or "center".
func ParsePosition(s string) (Position, error) {
	p, err := render.ParsePosition(s)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return p, nil
}

// Color represents an RGB color.
type Color = render.Color

// Watermark is a configured overlay that Apply stamps onto matching pages.
// The two implementations are TextWatermark and ImageWatermark.
type Watermark interface {
	// Pages returns the page selector deciding where the watermark applies.
	Pages() PageSelector

	element() render.Element
}

// TextWatermark overlays a line of text, optionally on a filled background
// box. The text may contain {{Page}} and {{Pages}} placeholders which expand
// per page.
//
// Configure it through the setters; each validates immediately and leaves the
// watermark unchanged on error.
type TextWatermark struct {
	text     string
	position Position
	angle    float64
	selector PageSelector

	family fonts.Family
	style  fonts.Style
	size   float64
	custom *fonts.Font

	textColor         Color
	textOpacity       float64
	backgroundColor   Color
	backgroundOpacity float64
	padding           float64
}

// NewTextWatermark creates a text watermark with defaults: centered, black
// 24pt Helvetica, fully opaque text, no background, applied to every page.
func NewTextWatermark(text string) *TextWatermark {
	return &TextWatermark{
		text:            text,
		position:        Center,
		size:            24,
		textOpacity:     1,
		backgroundColor: Color{R: 255, G: 255, B: 255},
	}
}

// SetPosition sets the page anchor. A position other than Center is rejected
// while a rotation angle is set.
func (w *TextWatermark) SetPosition(p Position) error {
	if !p.Valid() {
		return fmt.Errorf("%w: invalid position %d", ErrInvalidArgument, int(p))
	}
	if w.angle != 0 && p != Center {
		return fmt.Errorf("%w: rotation requires the center position", ErrInvalidArgument)
	}
	w.position = p
	return nil
}

// SetAngle sets the rotation in degrees about the text box center. A nonzero
// angle is only valid with the Center position.
func (w *TextWatermark) SetAngle(degrees float64) error {
	if degrees != 0 && w.position != Center {
		return fmt.Errorf("%w: rotation requires the center position", ErrInvalidArgument)
	}
	w.angle = degrees
	return nil
}

// SetPages sets the page selector. Tokens that do not parse are ignored at
// evaluation time and match nothing.
func (w *TextWatermark) SetPages(tokens ...string) {
	w.selector = PageSelector(tokens)
}

// SetFont selects a standard font family and style. Bold and Italic change
// the face; Underline and StrikeThrough are drawn as rules.
func (w *TextWatermark) SetFont(family fonts.Family, style fonts.Style) error {
	switch family {
	case fonts.Helvetica, fonts.Times, fonts.Courier:
	default:
		return fmt.Errorf("%w: unknown font family %d", ErrInvalidArgument, int(family))
	}
	w.family = family
	w.style = style
	w.custom = nil
	return nil
}

// SetFontFile attaches a TrueType font file, overriding the standard family.
// The font is embedded in the output document.
func (w *TextWatermark) SetFontFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	f, err := fonts.ParseTTF(name, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	w.custom = f
	return nil
}

// SetFontSize sets the font size in points.
func (w *TextWatermark) SetFontSize(points float64) error {
	if points <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %v", ErrInvalidArgument, points)
	}
	w.size = points
	return nil
}

// SetTextColor sets the glyph fill color.
func (w *TextWatermark) SetTextColor(c Color) {
	w.textColor = c
}

// SetTextOpacity sets the glyph fill alpha in [0, 1].
func (w *TextWatermark) SetTextOpacity(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: opacity must be in [0,1], got %v", ErrInvalidArgument, alpha)
	}
	w.textOpacity = alpha
	return nil
}

// SetBackgroundColor sets the fill color of the box behind the text. The box
// is only drawn when the background opacity is above zero.
func (w *TextWatermark) SetBackgroundColor(c Color) {
	w.backgroundColor = c
}

// SetBackgroundOpacity sets the background box alpha in [0, 1]. Zero, the
// default, disables the box entirely.
func (w *TextWatermark) SetBackgroundOpacity(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: opacity must be in [0,1], got %v", ErrInvalidArgument, alpha)
	}
	w.backgroundOpacity = alpha
	return nil
}

// SetPadding adds extra padding in points on every side of the text box.
func (w *TextWatermark) SetPadding(points float64) error {
	if points < 0 {
		return fmt.Errorf("%w: padding must not be negative, got %v", ErrInvalidArgument, points)
	}
	w.padding = points
	return nil
}

// Pages returns the configured page selector.
func (w *TextWatermark) Pages() PageSelector { return w.selector }

func (w *TextWatermark) element() render.Element {
	font := w.custom
	if font == nil {
		font = fonts.Resolve(w.family, w.style)
	}
	return &render.TextElement{
		Content:           w.text,
		Font:              font,
		Size:              w.size,
		Position:          w.position,
		Angle:             w.angle,
		TextColor:         w.textColor,
		TextOpacity:       w.textOpacity,
		BackgroundColor:   w.backgroundColor,
		BackgroundOpacity: w.backgroundOpacity,
		Padding:           w.padding,
		Underline:         w.style&fonts.Underline != 0,
		StrikeThrough:     w.style&fonts.StrikeThrough != 0,
	}
}

// ImageWatermark overlays a raster image. JPEG and PNG sources are supported.
//
// Sizing is controlled by exactly one of scale, width, or height; setting one
// clears the other two. With none set the image renders at its natural size.
// Images larger than the page are scaled down to fit, preserving aspect ratio.
type ImageWatermark struct {
	img      *images.Image
	position Position
	angle    float64
	opacity  float64
	selector PageSelector

	scale  float64
	width  int
	height int
}

// NewImageWatermark creates an image watermark from a file. The image is
// decoded immediately so unreadable or unsupported files fail here rather
// than during Apply.
func NewImageWatermark(path string) (*ImageWatermark, error) {
	img, err := images.Load(path)
	if err != nil {
		return nil, wrapImageErr(err)
	}
	return newImageWatermark(img), nil
}

// NewImageWatermarkFromBytes creates an image watermark from in-memory image
// data.
func NewImageWatermarkFromBytes(name string, data []byte) (*ImageWatermark, error) {
	img, err := images.FromBytes(name, data)
	if err != nil {
		return nil, wrapImageErr(err)
	}
	return newImageWatermark(img), nil
}

func newImageWatermark(img *images.Image) *ImageWatermark {
	return &ImageWatermark{
		img:      img,
		position: Center,
		opacity:  1,
	}
}

func wrapImageErr(err error) error {
	if errors.Is(err, images.ErrUnsupported) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}

// SetPosition sets the page anchor. A position other than Center is rejected
// while a rotation angle is set.
func (w *ImageWatermark) SetPosition(p Position) error {
	if !p.Valid() {
		return fmt.Errorf("%w: invalid position %d", ErrInvalidArgument, int(p))
	}
	if w.angle != 0 && p != Center {
		return fmt.Errorf("%w: rotation requires the center position", ErrInvalidArgument)
	}
	w.position = p
	return nil
}

// SetAngle sets the rotation in degrees about the image center. A nonzero
// angle is only valid with the Center position.
func (w *ImageWatermark) SetAngle(degrees float64) error {
	if degrees != 0 && w.position != Center {
		return fmt.Errorf("%w: rotation requires the center position", ErrInvalidArgument)
	}
	w.angle = degrees
	return nil
}

// SetOpacity sets the image alpha in [0, 1].
func (w *ImageWatermark) SetOpacity(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: opacity must be in [0,1], got %v", ErrInvalidArgument, alpha)
	}
	w.opacity = alpha
	return nil
}

// SetPages sets the page selector. Tokens that do not parse are ignored at
// evaluation time and match nothing.
func (w *ImageWatermark) SetPages(tokens ...string) {
	w.selector = PageSelector(tokens)
}

// SetScale sizes the image by a factor of its natural dimensions, clearing
// any explicit width or height.
func (w *ImageWatermark) SetScale(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidArgument, factor)
	}
	w.scale = factor
	w.width = 0
	w.height = 0
	return nil
}

// SetWidth sizes the image to an explicit width in points, deriving the
// height from the aspect ratio and clearing any scale or explicit height.
func (w *ImageWatermark) SetWidth(points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidArgument, points)
	}
	w.width = points
	w.scale = 0
	w.height = 0
	return nil
}

// SetHeight sizes the image to an explicit height in points, deriving the
// width from the aspect ratio and clearing any scale or explicit width.
func (w *ImageWatermark) SetHeight(points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidArgument, points)
	}
	w.height = points
	w.scale = 0
	w.width = 0
	return nil
}

// Scale returns the configured scale factor, or 0 when width or height
// sizing is active or nothing was set.
func (w *ImageWatermark) Scale() float64 { return w.scale }

// Width returns the configured explicit width, or 0 when inactive.
func (w *ImageWatermark) Width() int { return w.width }

// Height returns the configured explicit height, or 0 when inactive.
func (w *ImageWatermark) Height() int { return w.height }

// Pages returns the configured page selector.
func (w *ImageWatermark) Pages() PageSelector { return w.selector }

func (w *ImageWatermark) element() render.Element {
	return &render.ImageElement{
		Image:    w.img,
		Position: w.position,
		Angle:    w.angle,
		Opacity:  w.opacity,
		Scale:    w.scale,
		Width:    w.width,
		Height:   w.height,
	}
}
