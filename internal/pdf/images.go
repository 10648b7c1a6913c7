package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"io"

	_ "image/jpeg"
	_ "image/png"

	"github.com/digitorus/pdfmark/images"
)

// image registers an image XObject with the update and returns its object
// number. YCbCr JPEG data without transparency passes through as /DCTDecode;
// everything else, including grayscale and CMYK JPEGs whose component count
// would not match the declared /DeviceRGB color space, is re-encoded as raw
// DeviceRGB samples, with a DeviceGray soft mask when the image carries an
// alpha channel. Images are deduplicated by content hash, so the same file
// stamped onto every page of a long document is stored once.
func (u *Update) image(img *images.Image) (uint32, error) {
	if img == nil || len(img.Data) == 0 {
		return 0, fmt.Errorf("empty image")
	}
	if id, ok := u.imageIDs[img.Hash]; ok {
		return id, nil
	}

	srcImg, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := srcImg.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	_, isYCbCr := srcImg.(*image.YCbCr)

	var rgbBuf, alphaBuf bytes.Buffer
	var rgbWriter, alphaWriter io.Writer = &rgbBuf, &alphaBuf
	var zlibRgb, zlibAlpha *zlib.Writer
	useCompression := u.compressLevel != zlib.NoCompression
	if useCompression {
		zlibRgb, err = zlib.NewWriterLevel(&rgbBuf, u.compressLevel)
		if err != nil {
			return 0, err
		}
		zlibAlpha, err = zlib.NewWriterLevel(&alphaBuf, u.compressLevel)
		if err != nil {
			return 0, err
		}
		rgbWriter, alphaWriter = zlibRgb, zlibAlpha
	}

	hasAlpha := false
	px := make([]byte, 3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := srcImg.At(x, y).RGBA()
			a8 := uint8(a >> 8)
			if a8 < 255 {
				hasAlpha = true
			}
			if _, err := alphaWriter.Write([]byte{a8}); err != nil {
				return 0, err
			}
			px[0], px[1], px[2] = uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if _, err := rgbWriter.Write(px); err != nil {
				return 0, err
			}
		}
	}
	if useCompression {
		if err := zlibRgb.Close(); err != nil {
			return 0, err
		}
		if err := zlibAlpha.Close(); err != nil {
			return 0, err
		}
	}

	filter := ""
	if useCompression {
		filter = "/Filter /FlateDecode "
	}

	var smaskID uint32
	if hasAlpha {
		var smask bytes.Buffer
		fmt.Fprintf(&smask, "<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 %s/Length %d >>\nstream\n",
			width, height, filter, alphaBuf.Len())
		smask.Write(alphaBuf.Bytes())
		smask.WriteString("\nendstream")
		smaskID, err = u.addObject(smask.Bytes())
		if err != nil {
			return 0, err
		}
	}

	var obj bytes.Buffer
	obj.WriteString("<< /Type /XObject /Subtype /Image\n")
	fmt.Fprintf(&obj, "  /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8\n", width, height)
	if smaskID != 0 {
		fmt.Fprintf(&obj, "  /SMask %d 0 R\n", smaskID)
	}
	if format == "jpeg" && !hasAlpha && isYCbCr {
		fmt.Fprintf(&obj, "  /Filter /DCTDecode /Length %d >>\nstream\n", len(img.Data))
		obj.Write(img.Data)
	} else {
		fmt.Fprintf(&obj, "  %s/Length %d >>\nstream\n", filter, rgbBuf.Len())
		obj.Write(rgbBuf.Bytes())
	}
	obj.WriteString("\nendstream")

	id, err := u.addObject(obj.Bytes())
	if err != nil {
		return 0, err
	}
	u.imageIDs[img.Hash] = id
	return id, nil
}
