package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPDF writes a minimal well-formed document with the given number
// of pages and returns its path. The layout is one catalog, one page tree
// node carrying the media box and a shared font resource, then per page one
// page object and one content stream.
func writeTestPDF(t *testing.T, pages int) string {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	var kids strings.Builder
	for i := 0; i < pages; i++ {
		fmt.Fprintf(&kids, " %d 0 R", 3+i)
	}
	fontID := 3 + 2*pages

	addObj("<< /Type /Catalog /Pages 2 0 R >>")
	addObj(fmt.Sprintf("<< /Type /Pages /Kids [%s ] /Count %d /MediaBox [ 0 0 612 792 ] /Resources << /Font << /F1 %d 0 R >> >> >>",
		kids.String(), pages, fontID))
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", 3+pages+i))
	}
	for i := 0; i < pages; i++ {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (Page %d) Tj ET", i+1)
		addObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	addObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart)

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	doc, err := Open(writeTestPDF(t, 3))
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.PageCount(); got != 3 {
		t.Errorf("PageCount = %d, want 3", got)
	}

	for i := 1; i <= 3; i++ {
		geom, err := doc.PageGeometry(i)
		if err != nil {
			t.Fatal(err)
		}
		if geom.Width != 612 || geom.Height != 792 {
			t.Errorf("page %d geometry = %vx%v", i, geom.Width, geom.Height)
		}
	}

	if _, err := doc.PageGeometry(4); err == nil {
		t.Error("expected error for page out of range")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pdf"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("a missing file is an I/O error, not a parse error")
	}
}

func TestOpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nthis is not a valid document"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}
