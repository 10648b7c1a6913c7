package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	pdflib "github.com/digitorus/pdf"
)

// appendValue serializes a parsed value back into PDF syntax. The parser
// resolves indirect references transparently, so a value whose origin pointer
// names an object other than ownerID was reached through a reference and is
// written back as one. Everything else is written inline.
func appendValue(buf *bytes.Buffer, v pdflib.Value, ownerID uint32) {
	ptr := v.GetPtr()
	if id := uint32(ptr.GetID()); id != 0 && id != ownerID {
		fmt.Fprintf(buf, "%d %d R", id, ptr.GetGen())
		return
	}
	appendInline(buf, v, ownerID)
}

func appendInline(buf *bytes.Buffer, v pdflib.Value, ownerID uint32) {
	switch v.Kind() {
	case pdflib.Bool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case pdflib.Integer:
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
	case pdflib.Real:
		buf.WriteString(fmtFloat(v.Float64()))
	case pdflib.String:
		// Hex form round-trips arbitrary raw bytes (document IDs, dates)
		// without any escaping concerns.
		buf.WriteString("<" + hex.EncodeToString([]byte(v.RawString())) + ">")
	case pdflib.Name:
		buf.WriteString(pdfName(v.Name()))
	case pdflib.Array:
		buf.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			buf.WriteString(" ")
			appendValue(buf, v.Index(i), ownerID)
		}
		buf.WriteString(" ]")
	case pdflib.Dict:
		buf.WriteString("<<")
		for _, key := range v.Keys() {
			buf.WriteString(" " + pdfName(key) + " ")
			appendValue(buf, v.Key(key), ownerID)
		}
		buf.WriteString(" >>")
	case pdflib.Stream:
		// Streams are always indirect; reference the original object.
		ptr := v.GetPtr()
		fmt.Fprintf(buf, "%d %d R", ptr.GetID(), ptr.GetGen())
	default:
		buf.WriteString("null")
	}
}

// pdfName writes a name token, escaping delimiter and non-regular characters
// with #xx sequences.
func pdfName(name string) string {
	var b strings.Builder
	b.WriteString("/")
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c > '~' || strings.IndexByte("()<>[]{}/%#", c) >= 0 {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// fmtFloat formats a number without exponent notation, as PDF requires.
func fmtFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
