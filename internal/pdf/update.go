package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"

	pdflib "github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"

	"github.com/digitorus/pdfmark/internal/render"
)

type xrefEntry struct {
	ID     uint32
	Gen    uint16
	Offset int64
}

// Update is an in-progress incremental update of a source document. The
// original bytes are copied verbatim, new objects are appended, touched page
// objects are rewritten in place, and a new cross-reference section chains
// back to the previous one. All state is private to one Apply run.
type Update struct {
	doc           *Document
	out           *filebuffer.Buffer
	compressLevel int

	lastXrefID         uint32
	newXrefEntries     []xrefEntry
	updatedXrefEntries []xrefEntry

	// Resource objects are registered once per run and shared across pages.
	extGStates map[string]uint32
	fontIDs    map[string]uint32
	imageIDs   map[string]uint32
}

// NewUpdate starts an incremental update of the document.
func (d *Document) NewUpdate(compressLevel int) (u *Update, err error) {
	defer catchMalformed(&err)

	out := filebuffer.New([]byte{})
	if _, err := out.Write(d.data); err != nil {
		return nil, err
	}
	// The update must start on a fresh line after the original %%EOF.
	if _, err := out.Write([]byte("\n")); err != nil {
		return nil, err
	}

	size := d.rdr.Trailer().Key("Size").Int64()
	if size == 0 {
		size = d.rdr.XrefInformation.ItemCount
	}

	return &Update{
		doc:           d,
		out:           out,
		compressLevel: compressLevel,
		lastXrefID:    uint32(size) - 1,
		extGStates:    make(map[string]uint32),
		fontIDs:       make(map[string]uint32),
		imageIDs:      make(map[string]uint32),
	}, nil
}

// addObject appends a new numbered object and returns its ID. New objects
// always start at generation zero.
func (u *Update) addObject(object []byte) (uint32, error) {
	u.lastXrefID++
	id := u.lastXrefID

	offset, err := u.writeObject(id, 0, object)
	if err != nil {
		return 0, err
	}
	u.newXrefEntries = append(u.newXrefEntries, xrefEntry{ID: id, Offset: offset})
	return id, nil
}

// updateObject appends a replacement body for an existing object, keeping
// the generation the source document references it by.
func (u *Update) updateObject(id uint32, gen uint16, object []byte) error {
	offset, err := u.writeObject(id, gen, object)
	if err != nil {
		return err
	}
	u.updatedXrefEntries = append(u.updatedXrefEntries, xrefEntry{ID: id, Gen: gen, Offset: offset})
	return nil
}

func (u *Update) writeObject(id uint32, gen uint16, object []byte) (int64, error) {
	offset := int64(u.out.Buff.Len())

	if _, err := fmt.Fprintf(u.out, "%d %d obj\n", id, gen); err != nil {
		return 0, fmt.Errorf("failed to write object header: %w", err)
	}
	if _, err := u.out.Write(bytes.TrimSpace(object)); err != nil {
		return 0, fmt.Errorf("failed to write object %d: %w", id, err)
	}
	if _, err := u.out.Write([]byte("\nendobj\n")); err != nil {
		return 0, fmt.Errorf("failed to write object trailer: %w", err)
	}
	return offset, nil
}

// addStream appends a stream object, compressing its data according to the
// configured level. extraKeys is written into the stream dictionary before
// the filter and length entries.
func (u *Update) addStream(extraKeys string, data []byte) (uint32, error) {
	filter := ""
	if u.compressLevel != zlib.NoCompression {
		var b bytes.Buffer
		zw, err := zlib.NewWriterLevel(&b, u.compressLevel)
		if err != nil {
			return 0, err
		}
		if _, err := zw.Write(data); err != nil {
			return 0, err
		}
		if err := zw.Close(); err != nil {
			return 0, err
		}
		data = b.Bytes()
		filter = " /Filter /FlateDecode"
	}

	var obj bytes.Buffer
	fmt.Fprintf(&obj, "<<%s%s /Length %d >>\nstream\n", extraKeys, filter, len(data))
	obj.Write(data)
	obj.WriteString("\nendstream")
	return u.addObject(obj.Bytes())
}

// extGState registers a transparency graphics state for a fill alpha,
// deduplicated by value.
func (u *Update) extGState(alpha float64) (uint32, error) {
	key := fmtFloat(alpha)
	if id, ok := u.extGStates[key]; ok {
		return id, nil
	}
	obj := fmt.Sprintf("<< /Type /ExtGState /ca %s /CA %s >>", key, key)
	id, err := u.addObject([]byte(obj))
	if err != nil {
		return 0, err
	}
	u.extGStates[key] = id
	return id, nil
}

// resourceBindings maps canvas resource names to registered object IDs.
type resourceBindings struct {
	extGStates map[string]uint32
	fonts      map[string]uint32
	xobjects   map[string]uint32
}

// OverlayPage appends one overlay content stream for a page and rewrites the
// page object so the stream draws on top of the original content. Resources
// are registered in name order, so repeated runs over the same input produce
// identical bytes.
func (u *Update) OverlayPage(pageNum int, c *render.Canvas) (err error) {
	defer catchMalformed(&err)

	page := u.doc.rdr.Page(pageNum)
	if page.V.IsNull() {
		return fmt.Errorf("page %d not found", pageNum)
	}
	pagePtr := page.V.GetPtr()
	pageID := uint32(pagePtr.GetID())
	if pageID == 0 {
		return fmt.Errorf("page %d has no object number", pageNum)
	}
	pageGen := pagePtr.GetGen()

	res := c.Resources()
	bind := resourceBindings{
		extGStates: make(map[string]uint32, len(res.ExtGStates)),
		fonts:      make(map[string]uint32, len(res.Fonts)),
		xobjects:   make(map[string]uint32, len(res.Images)),
	}
	for _, name := range sortedNames(res.ExtGStates) {
		id, err := u.extGState(res.ExtGStates[name])
		if err != nil {
			return err
		}
		bind.extGStates[name] = id
	}
	for _, name := range sortedNames(res.Fonts) {
		id, err := u.font(res.Fonts[name])
		if err != nil {
			return err
		}
		bind.fonts[name] = id
	}
	for _, name := range sortedNames(res.Images) {
		id, err := u.image(res.Images[name])
		if err != nil {
			return err
		}
		bind.xobjects[name] = id
	}

	contentID, err := u.addStream("", c.Ops())
	if err != nil {
		return fmt.Errorf("failed to add overlay stream: %w", err)
	}

	dict := u.rewritePageDict(page.V, pageID, contentID, bind)
	if err := u.updateObject(pageID, pageGen, dict); err != nil {
		return fmt.Errorf("failed to update page %d: %w", pageNum, err)
	}
	return nil
}

// rewritePageDict reserializes a page dictionary with the overlay stream
// appended to /Contents and the overlay resources merged into /Resources.
// Every other entry is carried over unchanged, references preserved.
func (u *Update) rewritePageDict(page pdflib.Value, pageID, overlayID uint32, bind resourceBindings) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<")

	for _, key := range page.Keys() {
		if key == "Contents" || key == "Resources" {
			continue
		}
		buf.WriteString(" " + pdfName(key) + " ")
		appendValue(&buf, page.Key(key), pageID)
	}

	buf.WriteString(" /Contents [")
	contents := page.Key("Contents")
	switch {
	case contents.IsNull():
	case contents.Kind() == pdflib.Array:
		for i := 0; i < contents.Len(); i++ {
			if ptr := contents.Index(i).GetPtr(); ptr.GetID() != 0 {
				fmt.Fprintf(&buf, " %d %d R", ptr.GetID(), ptr.GetGen())
			}
		}
	default:
		if ptr := contents.GetPtr(); ptr.GetID() != 0 {
			fmt.Fprintf(&buf, " %d %d R", ptr.GetID(), ptr.GetGen())
		}
	}
	fmt.Fprintf(&buf, " %d 0 R ]", overlayID)

	buf.WriteString(" /Resources ")
	u.appendMergedResources(&buf, page, bind)

	buf.WriteString(" >>")
	return buf.Bytes()
}

// appendMergedResources materializes the page's effective resource
// dictionary (inherited from the page tree when the page has none) inline,
// with the overlay's ExtGState, Font and XObject entries merged in.
func (u *Update) appendMergedResources(buf *bytes.Buffer, page pdflib.Value, bind resourceBindings) {
	res := inheritedKey(page, "Resources")
	resPtr := res.GetPtr()
	ownerID := uint32(resPtr.GetID())

	buf.WriteString("<<")
	if res.Kind() == pdflib.Dict {
		for _, key := range res.Keys() {
			if key == "ExtGState" || key == "Font" || key == "XObject" {
				continue
			}
			buf.WriteString(" " + pdfName(key) + " ")
			appendValue(buf, res.Key(key), ownerID)
		}
	}
	appendResourceCategory(buf, "ExtGState", res, ownerID, bind.extGStates)
	appendResourceCategory(buf, "Font", res, ownerID, bind.fonts)
	appendResourceCategory(buf, "XObject", res, ownerID, bind.xobjects)
	buf.WriteString(" >>")
}

func appendResourceCategory(buf *bytes.Buffer, category string, res pdflib.Value, ownerID uint32, added map[string]uint32) {
	existing := res.Key(category)
	if existing.Kind() != pdflib.Dict && len(added) == 0 {
		return
	}

	buf.WriteString(" /" + category + " <<")
	if existing.Kind() == pdflib.Dict {
		owner := ownerID
		existingPtr := existing.GetPtr()
		if id := uint32(existingPtr.GetID()); id != 0 {
			owner = id
		}
		for _, name := range existing.Keys() {
			buf.WriteString(" " + pdfName(name) + " ")
			appendValue(buf, existing.Key(name), owner)
		}
	}

	for _, name := range sortedNames(added) {
		fmt.Fprintf(buf, " /%s %d 0 R", name, added[name])
	}
	buf.WriteString(" >>")
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
