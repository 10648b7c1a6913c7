// Package images provides raster image resources for image watermarks.
//
// JPEG and PNG are supported. Images are decoded once, when the resource is
// built, so a broken file fails fast instead of midway through a render.
package images

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// ErrUnsupported is returned when image data is not JPEG or PNG, or cannot
// be decoded.
var ErrUnsupported = errors.New("unsupported image format")

// Image is a decoded raster image resource.
type Image struct {
	Name   string // identifier, usually the file base name
	Data   []byte // raw JPEG or PNG bytes
	Format string // "jpeg" or "png"
	Hash   string // SHA256 of Data, used for deduplication
	Width  int    // natural width in pixels
	Height int    // natural height in pixels
}

// Load reads and decodes an image file.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes builds an Image resource from raw JPEG or PNG bytes.
func FromBytes(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrUnsupported)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}

	sum := sha256.Sum256(data)
	return &Image{
		Name:   name,
		Data:   data,
		Format: format,
		Hash:   hex.EncodeToString(sum[:]),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
