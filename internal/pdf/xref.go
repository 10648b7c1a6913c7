package pdf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	pdflib "github.com/digitorus/pdf"
)

// WriteFile finishes the incremental update and writes the result. The
// output is staged in the destination directory and renamed into place only
// after a complete write, so a failure never leaves a partial file at path.
func (u *Update) WriteFile(path string) (err error) {
	defer catchMalformed(&err)

	xrefStart := int64(u.out.Buff.Len())

	switch u.doc.rdr.XrefInformation.Type {
	case "table":
		if err := u.writeIncrXrefTable(); err != nil {
			return fmt.Errorf("failed to write xref table: %w", err)
		}
	default:
		if err := u.writeXrefStream(xrefStart); err != nil {
			return fmt.Errorf("failed to write xref stream: %w", err)
		}
		if _, err := u.out.Write([]byte("startxref\n")); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(u.out, "%d\n%%%%EOF\n", xrefStart); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pdfmark-out-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(u.out.Buff.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// writeIncrXrefTable writes the incremental cross-reference table and a
// fresh trailer chaining back to the previous table.
func (u *Update) writeIncrXrefTable() error {
	if _, err := u.out.Write([]byte("xref\n")); err != nil {
		return err
	}

	// Each rewritten object gets its own one-entry subsection, keeping the
	// generation the source document assigned it.
	for _, entry := range u.updatedXrefEntries {
		if _, err := fmt.Fprintf(u.out, "%d 1\n%010d %05d n\r\n", entry.ID, entry.Offset, entry.Gen); err != nil {
			return err
		}
	}

	// New objects are numbered contiguously and share one subsection.
	if len(u.newXrefEntries) > 0 {
		if _, err := fmt.Fprintf(u.out, "%d %d\n", u.newXrefEntries[0].ID, len(u.newXrefEntries)); err != nil {
			return err
		}
		for _, entry := range u.newXrefEntries {
			if _, err := fmt.Fprintf(u.out, "%010d 00000 n\r\n", entry.Offset); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(u.out, "trailer\n<< /Size %d%s >>\n", u.lastXrefID+1, u.trailerEntries()); err != nil {
		return err
	}
	if _, err := u.out.Write([]byte("startxref\n")); err != nil {
		return err
	}
	return nil
}

// trailerEntries serializes the /Root, /Info, /Prev and /ID entries carried
// over from the previous trailer.
func (u *Update) trailerEntries() string {
	trailer := u.doc.rdr.Trailer()
	var buf bytes.Buffer

	root := trailer.Key("Root")
	if ptr := root.GetPtr(); ptr.GetID() != 0 {
		fmt.Fprintf(&buf, " /Root %d %d R", ptr.GetID(), ptr.GetGen())
	}
	info := trailer.Key("Info")
	if ptr := info.GetPtr(); ptr.GetID() != 0 {
		fmt.Fprintf(&buf, " /Info %d %d R", ptr.GetID(), ptr.GetGen())
	}
	fmt.Fprintf(&buf, " /Prev %d", u.doc.rdr.XrefInformation.StartPos)

	id := trailer.Key("ID")
	if id.Kind() == pdflib.Array && id.Len() == 2 {
		fmt.Fprintf(&buf, " /ID [ <%s> <%s> ]",
			hex.EncodeToString([]byte(id.Index(0).RawString())),
			hex.EncodeToString([]byte(id.Index(1).RawString())))
	}
	return buf.String()
}

// writeXrefStream writes a cross-reference stream for documents whose
// previous revision also used one. The stream object is the last object of
// the update and indexes itself: its offset is xrefStart, which is where
// addObject is about to place it.
func (u *Update) writeXrefStream(xrefStart int64) error {
	selfID := u.lastXrefID + 1

	var entries bytes.Buffer
	for _, entry := range u.updatedXrefEntries {
		writeXrefStreamLine(&entries, entry.Offset, entry.Gen)
	}
	for _, entry := range u.newXrefEntries {
		writeXrefStreamLine(&entries, entry.Offset, 0)
	}
	writeXrefStreamLine(&entries, xrefStart, 0)

	// Xref streams are always Flate-compressed regardless of the configured
	// level; an uncompressed one would dwarf the update itself.
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(entries.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	var index bytes.Buffer
	for _, entry := range u.updatedXrefEntries {
		fmt.Fprintf(&index, " %d 1", entry.ID)
	}
	if len(u.newXrefEntries) > 0 {
		fmt.Fprintf(&index, " %d %d", u.newXrefEntries[0].ID, len(u.newXrefEntries)+1)
	} else {
		fmt.Fprintf(&index, " %d 1", selfID)
	}

	var obj bytes.Buffer
	obj.WriteString("<< /Type /XRef\n")
	fmt.Fprintf(&obj, "  /Length %d\n", compressed.Len())
	obj.WriteString("  /Filter /FlateDecode\n")
	obj.WriteString("  /W [ 1 4 1 ]\n")
	fmt.Fprintf(&obj, "  /Index [%s ]\n", index.String())
	fmt.Fprintf(&obj, "  /Size %d\n", selfID+1)
	fmt.Fprintf(&obj, " %s\n", u.trailerEntries())
	obj.WriteString(">>\nstream\n")
	obj.Write(compressed.Bytes())
	obj.WriteString("\nendstream")

	_, err := u.addObject(obj.Bytes())
	return err
}

// writeXrefStreamLine writes one type-1 (in-use) entry with the W [1 4 1]
// layout: type byte, 4-byte offset, generation byte.
func writeXrefStreamLine(buf *bytes.Buffer, offset int64, gen uint16) {
	var off [4]byte
	binary.BigEndian.PutUint32(off[:], uint32(offset))
	buf.WriteByte(1)
	buf.Write(off[:])
	buf.WriteByte(uint8(gen))
}
