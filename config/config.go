// Package config loads watermark profiles from TOML files for the command
// line interface. A profile file holds any number of [[text]] and [[image]]
// blocks, each describing one watermark.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/asaskevich/govalidator"

	"github.com/digitorus/pdfmark"
	"github.com/digitorus/pdfmark/fonts"
)

func init() {
	govalidator.SetFieldsRequiredByDefault(true)
}

// DefaultLocation is the config file used when none is given.
var DefaultLocation = "./pdfmark.toml"

// Config is the root of a profile file.
type Config struct {
	Text  []TextProfile  `toml:"text" valid:"-"`
	Image []ImageProfile `toml:"image" valid:"-"`
}

// TextProfile describes one text watermark. Zero values fall back to the
// library defaults: centered, 24pt regular Helvetica, opaque black text, no
// background, all pages.
type TextProfile struct {
	Text          string  `toml:"text" valid:"required"`
	Position      string  `toml:"position" valid:"optional"`
	Angle         float64 `toml:"angle" valid:"optional"`
	Pages         []string `toml:"pages" valid:"-"`
	Font          string  `toml:"font" valid:"optional,in(helvetica|times|courier)"`
	FontFile      string  `toml:"font_file" valid:"optional"`
	Size          float64 `toml:"size" valid:"optional"`
	Bold          bool    `toml:"bold" valid:"optional"`
	Italic        bool    `toml:"italic" valid:"optional"`
	Underline     bool    `toml:"underline" valid:"optional"`
	StrikeThrough bool    `toml:"strikethrough" valid:"optional"`
	Color         string  `toml:"color" valid:"optional,hexcolor"`
	Opacity       float64 `toml:"opacity" valid:"optional"`
	Background    string  `toml:"background" valid:"optional,hexcolor"`
	BackgroundOpacity float64 `toml:"background_opacity" valid:"optional"`
	Padding       float64 `toml:"padding" valid:"optional"`
}

// ImageProfile describes one image watermark. At most one of scale, width
// and height may be set.
type ImageProfile struct {
	Path     string   `toml:"path" valid:"required"`
	Position string   `toml:"position" valid:"optional"`
	Angle    float64  `toml:"angle" valid:"optional"`
	Pages    []string `toml:"pages" valid:"-"`
	Opacity  float64  `toml:"opacity" valid:"optional"`
	Scale    float64  `toml:"scale" valid:"optional"`
	Width    int      `toml:"width" valid:"optional"`
	Height   int      `toml:"height" valid:"optional"`
}

// ValidateFields validates all the fields of the config.
func (c Config) ValidateFields() error {
	if _, err := govalidator.ValidateStruct(c); err != nil {
		return err
	}
	for i, t := range c.Text {
		if _, err := govalidator.ValidateStruct(t); err != nil {
			return fmt.Errorf("text profile %d: %w", i+1, err)
		}
	}
	for i, img := range c.Image {
		if _, err := govalidator.ValidateStruct(img); err != nil {
			return fmt.Errorf("image profile %d: %w", i+1, err)
		}
		set := 0
		if img.Scale != 0 {
			set++
		}
		if img.Width != 0 {
			set++
		}
		if img.Height != 0 {
			set++
		}
		if set > 1 {
			return fmt.Errorf("image profile %d: scale, width and height are mutually exclusive", i+1)
		}
	}
	return nil
}

// Load reads and validates a profile file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file is missing: %w", err)
	}

	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.ValidateFields(); err != nil {
		return nil, fmt.Errorf("config is not valid: %w", err)
	}
	return &c, nil
}

// Watermarks builds the configured watermarks in file order, text profiles
// first.
func (c *Config) Watermarks() ([]pdfmark.Watermark, error) {
	out := make([]pdfmark.Watermark, 0, len(c.Text)+len(c.Image))
	for i, t := range c.Text {
		w, err := t.build()
		if err != nil {
			return nil, fmt.Errorf("text profile %d: %w", i+1, err)
		}
		out = append(out, w)
	}
	for i, img := range c.Image {
		w, err := img.build()
		if err != nil {
			return nil, fmt.Errorf("image profile %d: %w", i+1, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func (t TextProfile) build() (*pdfmark.TextWatermark, error) {
	w := pdfmark.NewTextWatermark(t.Text)

	if err := applyPlacement(t.Position, t.Angle,
		w.SetPosition, w.SetAngle); err != nil {
		return nil, err
	}
	w.SetPages(t.Pages...)

	family, err := fonts.ParseFamily(t.Font)
	if err != nil {
		return nil, err
	}
	style := fonts.Regular
	if t.Bold {
		style |= fonts.Bold
	}
	if t.Italic {
		style |= fonts.Italic
	}
	if t.Underline {
		style |= fonts.Underline
	}
	if t.StrikeThrough {
		style |= fonts.StrikeThrough
	}
	if err := w.SetFont(family, style); err != nil {
		return nil, err
	}
	if t.FontFile != "" {
		name := strings.TrimSuffix(t.FontFile, ".ttf")
		if err := w.SetFontFile(name, t.FontFile); err != nil {
			return nil, err
		}
	}
	if t.Size != 0 {
		if err := w.SetFontSize(t.Size); err != nil {
			return nil, err
		}
	}

	if t.Color != "" {
		c, err := ParseHexColor(t.Color)
		if err != nil {
			return nil, err
		}
		w.SetTextColor(c)
	}
	if t.Opacity != 0 {
		if err := w.SetTextOpacity(t.Opacity); err != nil {
			return nil, err
		}
	}
	if t.Background != "" {
		c, err := ParseHexColor(t.Background)
		if err != nil {
			return nil, err
		}
		w.SetBackgroundColor(c)
	}
	if t.BackgroundOpacity != 0 {
		if err := w.SetBackgroundOpacity(t.BackgroundOpacity); err != nil {
			return nil, err
		}
	}
	if t.Padding != 0 {
		if err := w.SetPadding(t.Padding); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (i ImageProfile) build() (*pdfmark.ImageWatermark, error) {
	w, err := pdfmark.NewImageWatermark(i.Path)
	if err != nil {
		return nil, err
	}

	if err := applyPlacement(i.Position, i.Angle,
		w.SetPosition, w.SetAngle); err != nil {
		return nil, err
	}
	w.SetPages(i.Pages...)

	if i.Opacity != 0 {
		if err := w.SetOpacity(i.Opacity); err != nil {
			return nil, err
		}
	}
	switch {
	case i.Scale != 0:
		err = w.SetScale(i.Scale)
	case i.Width != 0:
		err = w.SetWidth(i.Width)
	case i.Height != 0:
		err = w.SetHeight(i.Height)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// applyPlacement sets angle and position; a nonzero angle combined with a
// non-center position is rejected by the setters.
func applyPlacement(position string, angle float64,
	setPosition func(pdfmark.Position) error, setAngle func(float64) error) error {
	if angle != 0 {
		if err := setAngle(angle); err != nil {
			return err
		}
	}
	if position != "" {
		p, err := pdfmark.ParsePosition(position)
		if err != nil {
			return err
		}
		if err := setPosition(p); err != nil {
			return err
		}
	}
	return nil
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into a color.
func ParseHexColor(s string) (pdfmark.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return pdfmark.Color{}, fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return pdfmark.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return pdfmark.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
