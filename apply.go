package pdfmark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digitorus/pdfmark/internal/pdf"
	"github.com/digitorus/pdfmark/internal/render"
)

// Apply stamps all registered watermarks onto inputPath and writes the
// result to outputPath. It blocks until the output is fully written; on
// failure no partial file is left at outputPath.
//
// Documents the parser cannot read are routed through pdftk: the input is
// uncompressed into a scratch directory, watermarked there, and compressed
// into place. The scratch directory is removed on every exit path.
func (wm *Watermarker) Apply(inputPath, outputPath string) error {
	if len(wm.watermarks) == 0 {
		return ErrNoWatermarks
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%w: input file: %v", ErrInvalidArgument, err)
	}

	err := wm.applyDirect(inputPath, outputPath)
	if err == nil || !errors.Is(err, pdf.ErrMalformed) {
		return err
	}

	if fberr := wm.applyViaFallback(inputPath, outputPath); fberr != nil {
		return fmt.Errorf("fallback after parse failure (%v): %w", err, fberr)
	}
	return nil
}

// applyDirect runs one watermarking pass: open, overlay matching pages,
// write. Parse failures come back wrapping pdf.ErrMalformed.
func (wm *Watermarker) applyDirect(inputPath, outputPath string) error {
	doc, err := pdf.Open(inputPath)
	if err != nil {
		return err
	}

	total := doc.PageCount()
	geoms := make([]render.PageGeometry, total)
	for i := 1; i <= total; i++ {
		if geoms[i-1], err = doc.PageGeometry(i); err != nil {
			return err
		}
	}

	update, err := doc.NewUpdate(wm.compressLevel)
	if err != nil {
		return err
	}

	pol := render.DefaultPolicy()
	for i := 1; i <= total; i++ {
		canvas := render.NewCanvas(geoms[i-1], pol)
		ctx := render.PageContext{Page: i, Pages: total}
		for _, w := range wm.watermarks {
			if !w.Pages().Matches(i, total) {
				continue
			}
			if err := w.element().Render(canvas, ctx); err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
		}
		if canvas.Empty() {
			continue
		}
		if err := update.OverlayPage(i, canvas); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}

	return update.WriteFile(outputPath)
}

// applyViaFallback normalizes the input with pdftk, watermarks the
// normalized copy, and compresses the result into outputPath.
func (wm *Watermarker) applyViaFallback(inputPath, outputPath string) error {
	tmpDir, err := os.MkdirTemp(wm.tempDir, "pdfmark-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	uncompressed := filepath.Join(tmpDir, "uncompressed.pdf")
	if err := wm.normalize(inputPath, uncompressed, "uncompress"); err != nil {
		return err
	}

	marked := filepath.Join(tmpDir, "marked.pdf")
	if err := wm.applyDirect(uncompressed, marked); err != nil {
		return err
	}

	// Compress to a sibling of the final output so the rename below never
	// crosses a filesystem boundary.
	staged, err := os.CreateTemp(filepath.Dir(outputPath), ".pdfmark-out-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	stagedName := staged.Name()
	staged.Close()
	defer os.Remove(stagedName)

	if err := wm.normalize(marked, stagedName, "compress"); err != nil {
		return err
	}
	if err := os.Rename(stagedName, outputPath); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
