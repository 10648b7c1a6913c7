package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/digitorus/pdfmark"
	"github.com/digitorus/pdfmark/config"
	"github.com/digitorus/pdfmark/fonts"
)

var (
	Text          string
	Image         string
	ConfigFile    string
	PositionName  string
	Angle         float64
	Pages         string
	FontName      string
	FontSize      float64
	Bold          bool
	Italic        bool
	Underline     bool
	StrikeThrough bool
	TextColor     string
	TextOpacity   float64
	Background    string
	BgOpacity     float64
	Padding       float64
	Opacity       float64
	Scale         float64
	Width         int
	Height        int
	PdftkPath     string
	ToolTimeout   time.Duration
)

func MarkCommand() {
	markFlags := flag.NewFlagSet("mark", flag.ExitOnError)

	markFlags.StringVar(&Text, "text", "", "Text watermark content ({{Page}} and {{Pages}} expand per page)")
	markFlags.StringVar(&Image, "image", "", "Image watermark file (JPEG or PNG)")
	markFlags.StringVar(&ConfigFile, "config", "", "TOML watermark profile file")
	markFlags.StringVar(&PositionName, "position", "center", "Anchor position (top/middle/bottom x left/center/right)")
	markFlags.Float64Var(&Angle, "angle", 0, "Rotation in degrees (center position only)")
	markFlags.StringVar(&Pages, "pages", "", "Comma-separated page selector tokens (all, last, N, N-M, N-last)")
	markFlags.StringVar(&FontName, "font", "helvetica", "Font family (helvetica, times, courier)")
	markFlags.Float64Var(&FontSize, "size", 24, "Font size in points")
	markFlags.BoolVar(&Bold, "bold", false, "Bold text")
	markFlags.BoolVar(&Italic, "italic", false, "Italic text")
	markFlags.BoolVar(&Underline, "underline", false, "Underline text")
	markFlags.BoolVar(&StrikeThrough, "strikethrough", false, "Strike through text")
	markFlags.StringVar(&TextColor, "color", "#000000", "Text color (RRGGBB)")
	markFlags.Float64Var(&TextOpacity, "text-opacity", 1, "Text opacity in [0,1]")
	markFlags.StringVar(&Background, "background", "", "Text background color (RRGGBB); empty disables the background")
	markFlags.Float64Var(&BgOpacity, "background-opacity", 0, "Text background opacity in [0,1]")
	markFlags.Float64Var(&Padding, "padding", 0, "Extra text box padding in points")
	markFlags.Float64Var(&Opacity, "opacity", 1, "Image opacity in [0,1]")
	markFlags.Float64Var(&Scale, "scale", 0, "Image scale factor")
	markFlags.IntVar(&Width, "width", 0, "Image width in points (height follows aspect ratio)")
	markFlags.IntVar(&Height, "height", 0, "Image height in points (width follows aspect ratio)")
	markFlags.StringVar(&PdftkPath, "pdftk", "", "Path to the pdftk binary (default: resolved from PATH)")
	markFlags.DurationVar(&ToolTimeout, "tool-timeout", time.Minute, "Timeout for pdftk invocations")

	markFlags.Usage = func() {
		fmt.Printf("Usage: %s mark [options] <input.pdf> <output.pdf>\n\n", os.Args[0])
		fmt.Println("Apply watermarks to a PDF file")
		fmt.Println("\nOptions:")
		markFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s mark -text CONFIDENTIAL -angle 45 -text-opacity 0.3 input.pdf output.pdf\n", os.Args[0])
		fmt.Printf("  %s mark -image logo.png -position bottom-right -scale 0.2 input.pdf output.pdf\n", os.Args[0])
		fmt.Printf("  %s mark -config watermarks.toml input.pdf output.pdf\n", os.Args[0])
	}

	if err := markFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse mark flags: %v", err)
		osExit(1)
	}

	if len(markFlags.Args()) < 2 {
		markFlags.Usage()
		osExit(1)
		return
	}

	MarkPDF(markFlags.Arg(0), markFlags.Arg(1))
}

func MarkPDF(input, output string) {
	wm, err := pdfmark.NewWithOptions(pdfmark.Options{
		PdftkPath:   PdftkPath,
		ToolTimeout: ToolTimeout,
	})
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	watermarks, err := buildWatermarks()
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	for _, w := range watermarks {
		if err := wm.AddWatermark(w); err != nil {
			log.Println(err)
			osExit(1)
			return
		}
	}

	if err := wm.Apply(input, output); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	log.Println("Watermarked PDF written to " + output)
}

func buildWatermarks() ([]pdfmark.Watermark, error) {
	if ConfigFile != "" {
		c, err := config.Load(ConfigFile)
		if err != nil {
			return nil, err
		}
		return c.Watermarks()
	}

	var out []pdfmark.Watermark
	if Text != "" {
		w, err := buildTextWatermark()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if Image != "" {
		w, err := buildImageWatermark()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("nothing to do: use -text, -image or -config")
	}
	return out, nil
}

func buildTextWatermark() (*pdfmark.TextWatermark, error) {
	w := pdfmark.NewTextWatermark(Text)

	if err := applyPlacement(w.SetPosition, w.SetAngle); err != nil {
		return nil, err
	}
	w.SetPages(pageTokens()...)

	family, err := fonts.ParseFamily(FontName)
	if err != nil {
		return nil, err
	}
	style := fonts.Regular
	if Bold {
		style |= fonts.Bold
	}
	if Italic {
		style |= fonts.Italic
	}
	if Underline {
		style |= fonts.Underline
	}
	if StrikeThrough {
		style |= fonts.StrikeThrough
	}
	if err := w.SetFont(family, style); err != nil {
		return nil, err
	}
	if err := w.SetFontSize(FontSize); err != nil {
		return nil, err
	}

	c, err := config.ParseHexColor(TextColor)
	if err != nil {
		return nil, err
	}
	w.SetTextColor(c)
	if err := w.SetTextOpacity(TextOpacity); err != nil {
		return nil, err
	}

	if Background != "" {
		bg, err := config.ParseHexColor(Background)
		if err != nil {
			return nil, err
		}
		w.SetBackgroundColor(bg)
		if err := w.SetBackgroundOpacity(BgOpacity); err != nil {
			return nil, err
		}
	}
	if Padding != 0 {
		if err := w.SetPadding(Padding); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func buildImageWatermark() (*pdfmark.ImageWatermark, error) {
	w, err := pdfmark.NewImageWatermark(Image)
	if err != nil {
		return nil, err
	}

	if err := applyPlacement(w.SetPosition, w.SetAngle); err != nil {
		return nil, err
	}
	w.SetPages(pageTokens()...)

	if err := w.SetOpacity(Opacity); err != nil {
		return nil, err
	}
	switch {
	case Scale != 0:
		err = w.SetScale(Scale)
	case Width != 0:
		err = w.SetWidth(Width)
	case Height != 0:
		err = w.SetHeight(Height)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func applyPlacement(setPosition func(pdfmark.Position) error, setAngle func(float64) error) error {
	if Angle != 0 {
		if err := setAngle(Angle); err != nil {
			return err
		}
	}
	if PositionName != "" {
		p, err := pdfmark.ParsePosition(PositionName)
		if err != nil {
			return err
		}
		if err := setPosition(p); err != nil {
			return err
		}
	}
	return nil
}

func pageTokens() []string {
	if Pages == "" {
		return nil
	}
	tokens := strings.Split(Pages, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens
}
