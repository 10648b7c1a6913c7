package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"

	"github.com/digitorus/pdfmark/fonts"
)

// font registers a font with the update and returns its object number.
// Standard 14 fonts become plain Type1 dictionaries; fonts loaded from a
// TrueType file are embedded with a descriptor and widths array. Each font
// is written once per update, keyed by its name.
func (u *Update) font(f *fonts.Font) (uint32, error) {
	name := "Helvetica"
	if f != nil && f.Name != "" {
		name = f.Name
	}
	if id, ok := u.fontIDs[name]; ok {
		return id, nil
	}

	var id uint32
	var err error
	if f != nil && len(f.Data) > 0 {
		id, err = u.embedFont(f)
	} else {
		dict := fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont %s /Encoding /WinAnsiEncoding >>", pdfName(name))
		id, err = u.addObject([]byte(dict))
	}
	if err != nil {
		return 0, err
	}
	u.fontIDs[name] = id
	return id, nil
}

func (u *Update) embedFont(f *fonts.Font) (uint32, error) {
	fontData := f.Data
	filter := ""
	if u.compressLevel != zlib.NoCompression {
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, u.compressLevel)
		if err != nil {
			return 0, err
		}
		if _, err := zw.Write(f.Data); err != nil {
			return 0, err
		}
		if err := zw.Close(); err != nil {
			return 0, err
		}
		fontData = buf.Bytes()
		filter = "/Filter /FlateDecode "
	}

	var stream bytes.Buffer
	fmt.Fprintf(&stream, "<< /Length %d /Length1 %d %s>>\nstream\n", len(fontData), len(f.Data), filter)
	stream.Write(fontData)
	stream.WriteString("\nendstream")
	streamID, err := u.addObject(stream.Bytes())
	if err != nil {
		return 0, err
	}

	descriptor := fmt.Sprintf("<< /Type /FontDescriptor /FontName %s /Flags 32 /FontBBox [-500 -200 1000 900] /ItalicAngle 0 /Ascent 800 /Descent -200 /CapHeight 700 /StemV 80 /FontFile2 %d 0 R >>",
		pdfName(f.Name), streamID)
	descriptorID, err := u.addObject([]byte(descriptor))
	if err != nil {
		return 0, err
	}

	var dict bytes.Buffer
	fmt.Fprintf(&dict, "<< /Type /Font /Subtype /TrueType /BaseFont %s /FontDescriptor %d 0 R /FirstChar 32 /LastChar 255 /Encoding /WinAnsiEncoding /Widths [",
		pdfName(f.Name), descriptorID)
	if f.Metrics != nil {
		for _, w := range f.Metrics.WidthsArray() {
			fmt.Fprintf(&dict, " %d", w)
		}
	} else {
		for i := 32; i <= 255; i++ {
			dict.WriteString(" 500")
		}
	}
	dict.WriteString(" ] >>")
	return u.addObject(dict.Bytes())
}
