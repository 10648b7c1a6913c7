// Package pdf is the boundary to the underlying PDF engine. It reads source
// documents through github.com/digitorus/pdf and writes watermarked output as
// an incremental update, which preserves every original object byte for byte.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	pdflib "github.com/digitorus/pdf"

	"github.com/digitorus/pdfmark/internal/render"
)

// ErrMalformed marks a document the primary engine cannot parse. Callers may
// recover from it by normalizing the input with an external tool and
// retrying.
var ErrMalformed = errors.New("malformed document")

// catchMalformed converts parser panics into ErrMalformed. The underlying
// library panics on some malformed cross-reference tables and object graphs.
func catchMalformed(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrMalformed, r)
	}
}

// Document is a parsed source PDF.
type Document struct {
	path string
	data []byte
	rdr  *pdflib.Reader
}

// Open reads and parses a PDF file. Parse failures are reported as
// ErrMalformed; plain I/O failures are returned as-is.
func Open(path string) (doc *Document, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	defer catchMalformed(&err)
	rdr, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &Document{path: path, data: data, rdr: rdr}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.rdr.NumPage()
}

// PageGeometry returns the media box of a page (1-based). The media box may
// be inherited from an ancestor node of the page tree; a page without one
// anywhere defaults to US Letter.
func (d *Document) PageGeometry(pageNum int) (geom render.PageGeometry, err error) {
	defer catchMalformed(&err)

	page := d.rdr.Page(pageNum)
	if page.V.IsNull() {
		return geom, fmt.Errorf("page %d not found", pageNum)
	}

	box := inheritedKey(page.V, "MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return render.PageGeometry{Width: 612, Height: 792}, nil
	}

	var b [4]float64
	for i := 0; i < 4; i++ {
		b[i] = box.Index(i).Float64()
	}
	return render.PageGeometry{
		Width:   b[2] - b[0],
		Height:  b[3] - b[1],
		OriginX: b[0],
		OriginY: b[1],
	}, nil
}

// inheritedKey looks up a page tree attribute on the page itself or, failing
// that, on its ancestors. The depth limit guards against parent cycles in
// damaged files.
func inheritedKey(page pdflib.Value, key string) pdflib.Value {
	node := page
	for depth := 0; depth < 64; depth++ {
		if v := node.Key(key); !v.IsNull() {
			return v
		}
		parent := node.Key("Parent")
		if parent.IsNull() {
			break
		}
		node = parent
	}
	return pdflib.Value{}
}
