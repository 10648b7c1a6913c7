package images

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFromBytes(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		img, err := FromBytes("box.png", encodePNG(t, 32, 16))
		if err != nil {
			t.Fatal(err)
		}
		if img.Format != "png" || img.Width != 32 || img.Height != 16 {
			t.Errorf("got %s %dx%d", img.Format, img.Width, img.Height)
		}
		if img.Hash == "" {
			t.Error("missing content hash")
		}
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
			t.Fatal(err)
		}
		img, err := FromBytes("box.jpg", buf.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if img.Format != "jpeg" {
			t.Errorf("format = %s", img.Format)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := FromBytes("x", []byte("not an image"))
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("err = %v, want ErrUnsupported", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FromBytes("x", nil)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("err = %v, want ErrUnsupported", err)
		}
	})
}

func TestFromBytesStableHash(t *testing.T) {
	data := encodePNG(t, 4, 4)
	a, err := FromBytes("a", data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromBytes("b", data)
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash != b.Hash {
		t.Error("same bytes must hash identically")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, encodePNG(t, 10, 10), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Name != "logo.png" {
		t.Errorf("name = %q", img.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
