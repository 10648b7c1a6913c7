package pdfmark

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/digitorus/pdfmark/fonts"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTextWatermarkValidation(t *testing.T) {
	w := NewTextWatermark("DRAFT")

	t.Run("opacity range", func(t *testing.T) {
		if err := w.SetTextOpacity(1.5); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetTextOpacity(-0.1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetBackgroundOpacity(2); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetTextOpacity(0.5); err != nil {
			t.Errorf("valid opacity rejected: %v", err)
		}
	})

	t.Run("font size", func(t *testing.T) {
		if err := w.SetFontSize(0); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetFontSize(-3); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetFontSize(36); err != nil {
			t.Errorf("valid size rejected: %v", err)
		}
	})

	t.Run("padding", func(t *testing.T) {
		if err := w.SetPadding(-1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("invalid position", func(t *testing.T) {
		if err := w.SetPosition(Position(42)); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("unknown family", func(t *testing.T) {
		if err := w.SetFont(fonts.Family(9), fonts.Regular); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestAnglePositionConflict(t *testing.T) {
	t.Run("angle after position", func(t *testing.T) {
		w := NewTextWatermark("X")
		if err := w.SetPosition(TopLeft); err != nil {
			t.Fatal(err)
		}
		if err := w.SetAngle(45); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("position after angle", func(t *testing.T) {
		w := NewTextWatermark("X")
		if err := w.SetAngle(45); err != nil {
			t.Fatal(err)
		}
		if err := w.SetPosition(BottomRight); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
		if err := w.SetPosition(Center); err != nil {
			t.Errorf("center with angle rejected: %v", err)
		}
	})

	t.Run("zero angle anywhere", func(t *testing.T) {
		w := NewTextWatermark("X")
		if err := w.SetPosition(TopRight); err != nil {
			t.Fatal(err)
		}
		if err := w.SetAngle(0); err != nil {
			t.Errorf("err = %v", err)
		}
	})
}

func TestImageWatermarkSizingExclusivity(t *testing.T) {
	w, err := NewImageWatermarkFromBytes("test.png", testPNG(t, 10, 10))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.SetWidth(100); err != nil {
		t.Fatal(err)
	}
	if err := w.SetScale(0.5); err != nil {
		t.Fatal(err)
	}
	if w.Width() != 0 || w.Height() != 0 {
		t.Error("scale must clear width and height")
	}
	if w.Scale() != 0.5 {
		t.Errorf("scale = %v", w.Scale())
	}

	if err := w.SetHeight(200); err != nil {
		t.Fatal(err)
	}
	if w.Scale() != 0 || w.Width() != 0 {
		t.Error("height must clear scale and width")
	}

	if err := w.SetWidth(50); err != nil {
		t.Fatal(err)
	}
	if w.Scale() != 0 || w.Height() != 0 {
		t.Error("width must clear scale and height")
	}
}

func TestImageWatermarkValidation(t *testing.T) {
	w, err := NewImageWatermarkFromBytes("test.png", testPNG(t, 10, 10))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.SetScale(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v", err)
	}
	if err := w.SetWidth(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v", err)
	}
	if err := w.SetHeight(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v", err)
	}
	if err := w.SetOpacity(1.1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v", err)
	}
}

func TestNewImageWatermarkErrors(t *testing.T) {
	if _, err := NewImageWatermarkFromBytes("x", []byte("garbage")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := NewImageWatermark("/nonexistent/logo.png"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestParsePositionPublic(t *testing.T) {
	p, err := ParsePosition("bottom-right")
	if err != nil || p != BottomRight {
		t.Errorf("ParsePosition = %v, %v", p, err)
	}
	if _, err := ParsePosition("nowhere"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v", err)
	}
}
