// Package pdfmark overlays text and image watermarks onto the pages of an
// existing PDF document.
//
// Basic usage:
//
//	wm := pdfmark.New()
//
//	text := pdfmark.NewTextWatermark("CONFIDENTIAL")
//	text.SetAngle(45)
//	text.SetTextOpacity(0.3)
//	wm.AddWatermark(text)
//
//	err := wm.Apply("in.pdf", "out.pdf")
//
// Watermarks draw in registration order; later watermarks draw on top.
// Original page content, size, and orientation are preserved. Documents the
// parser cannot read directly are normalized through pdftk and retried.
package pdfmark

import (
	"compress/zlib"
	"fmt"
	"os/exec"
	"time"
)

// Options configures a Watermarker.
type Options struct {
	// PdftkPath is the pdftk binary used for compatibility normalization.
	// When empty it is resolved from PATH once at construction.
	PdftkPath string

	// TempDir is the directory for per-Apply scratch space. Empty means the
	// system default.
	TempDir string

	// ToolTimeout bounds each pdftk invocation. Zero means one minute.
	ToolTimeout time.Duration

	// CompressLevel is the zlib level for streams added to the output:
	// 1 (zlib.BestSpeed) through 9 (zlib.BestCompression), NoCompression,
	// or 0 for the zlib default.
	CompressLevel int
}

// NoCompression disables compression of streams added to the output. It
// stands in for zlib.NoCompression, whose value collides with the Options
// zero value.
const NoCompression = -255

// Watermarker applies a registered list of watermarks to documents. It can
// be reused across Apply calls; concurrent Apply calls on distinct outputs
// are safe as long as the watermark list is not mutated between them.
type Watermarker struct {
	watermarks []Watermark

	pdftkPath     string
	tempDir       string
	toolTimeout   time.Duration
	compressLevel int
}

// New creates a Watermarker with default options.
func New() *Watermarker {
	w, _ := NewWithOptions(Options{})
	return w
}

// NewWithOptions creates a Watermarker. The pdftk binary is resolved here;
// a missing binary is not an error until a document actually needs the
// compatibility fallback.
func NewWithOptions(opts Options) (*Watermarker, error) {
	level := opts.CompressLevel
	switch {
	case level == 0:
		level = zlib.DefaultCompression
	case level == NoCompression:
		level = zlib.NoCompression
	case level < zlib.BestSpeed || level > zlib.BestCompression:
		return nil, fmt.Errorf("%w: invalid compression level %d", ErrInvalidArgument, opts.CompressLevel)
	}

	pdftk := opts.PdftkPath
	if pdftk == "" {
		// Ignore a lookup failure; the path stays empty and Apply only
		// complains if the fallback is reached.
		if path, err := exec.LookPath("pdftk"); err == nil {
			pdftk = path
		}
	}

	timeout := opts.ToolTimeout
	if timeout == 0 {
		timeout = time.Minute
	}

	return &Watermarker{
		pdftkPath:     pdftk,
		tempDir:       opts.TempDir,
		toolTimeout:   timeout,
		compressLevel: level,
	}, nil
}

// AddWatermark registers a watermark. Registration order is draw order.
func (wm *Watermarker) AddWatermark(w Watermark) error {
	if w == nil {
		return fmt.Errorf("%w: nil watermark", ErrInvalidArgument)
	}
	wm.watermarks = append(wm.watermarks, w)
	return nil
}
