package render

import (
	"github.com/digitorus/pdfmark/fonts"
	"github.com/digitorus/pdfmark/images"
)

// Color represents an RGB color.
type Color struct {
	R, G, B uint8
}

// Orientation describes the aspect of a page.
type Orientation int

const (
	// Portrait is a page at least as tall as it is wide.
	Portrait Orientation = iota
	// Landscape is a page wider than it is tall.
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// PageGeometry describes one page of the source document. It is computed once
// per Apply run and never mutated.
type PageGeometry struct {
	Width, Height    float64 // media box size in points
	OriginX, OriginY float64 // media box lower-left corner, usually (0,0)
}

// Orientation derives the page orientation from the media box.
func (g PageGeometry) Orientation() Orientation {
	if g.Width > g.Height {
		return Landscape
	}
	return Portrait
}

// PageContext carries the per-page values available to elements while
// rendering, such as the current page number for placeholder expansion.
type PageContext struct {
	Page  int
	Pages int
}

// Element is a watermark shaped for rendering onto a single page.
type Element interface {
	Render(c *Canvas, page PageContext) error
}

// TextElement is a positioned text overlay.
type TextElement struct {
	Content           string
	Font              *fonts.Font
	Size              float64
	Position          Position
	Angle             float64
	TextColor         Color
	TextOpacity       float64
	BackgroundColor   Color
	BackgroundOpacity float64
	Padding           float64
	Underline         bool
	StrikeThrough     bool
}

// ImageElement is a positioned raster image overlay.
type ImageElement struct {
	Image    *images.Image
	Position Position
	Angle    float64
	Opacity  float64

	// Exactly one sizing mode is active; Scale 0 with zero Width and Height
	// means natural size.
	Scale  float64
	Width  int
	Height int
}
