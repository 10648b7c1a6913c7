package pdfmark

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// normalize round-trips a document through pdftk. The operation is either
// "uncompress" or "compress"; pdftk rewrites the cross-reference structure
// either way, which is what makes otherwise unreadable documents parseable.
func (wm *Watermarker) normalize(inputPath, outputPath, operation string) error {
	if wm.pdftkPath == "" {
		return fmt.Errorf("%w: pdftk not found in PATH", ErrExternalTool)
	}

	ctx, cancel := context.WithTimeout(context.Background(), wm.toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, wm.pdftkPath, inputPath, "output", outputPath, operation)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: pdftk %s timed out after %s", ErrExternalTool, operation, wm.toolTimeout)
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%w: pdftk %s: %v: %s", ErrExternalTool, operation, err, msg)
		}
		return fmt.Errorf("%w: pdftk %s: %v", ErrExternalTool, operation, err)
	}
	return nil
}
