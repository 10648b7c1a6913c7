package render

import "math"

// TextBox returns the bounding box of a measured line of text under the
// policy conventions: measured advance width plus horizontal padding, and a
// height derived from the font size.
func (pol Policy) TextBox(textWidth, fontSize, extraPad float64) (boxW, boxH float64) {
	boxW = textWidth + 2*(pol.TextPadX+extraPad)
	boxH = fontSize*pol.LineHeightFactor + 2*(pol.TextPadY+extraPad)
	return boxW, boxH
}

// TextBaseline returns the x and y of the first glyph for text drawn inside a
// box at (boxX, boxY). The small downward shift visually centers the glyphs
// accounting for descenders.
func (pol Policy) TextBaseline(boxX, boxY, boxH, fontSize, extraPad float64) (x, y float64) {
	textH := fontSize * pol.LineHeightFactor
	x = boxX + pol.TextPadX + extraPad
	y = boxY + (boxH-textH)/2 - fontSize*0.05
	return x, y
}

// ResolveImageSize resolves the drawn size of an image from its natural
// dimensions and the element's sizing mode. Exactly one of scale, width and
// height is set; all zero means natural size.
func ResolveImageSize(naturalW, naturalH int, scale float64, width, height int) (w, h float64) {
	nw, nh := float64(naturalW), float64(naturalH)
	switch {
	case width > 0:
		w = float64(width)
		h = w * nh / nw
	case height > 0:
		h = float64(height)
		w = h * nw / nh
	case scale > 0:
		w, h = nw*scale, nh*scale
	default:
		w, h = nw, nh
	}
	return w, h
}

// ClampToPage uniformly downscales a box that exceeds the page so that it
// fits while preserving aspect ratio. The factor is truncated to two decimals
// so clamped output is reproducible across platforms.
func ClampToPage(w, h, pageW, pageH float64) (float64, float64) {
	if w <= pageW && h <= pageH {
		return w, h
	}
	factor := math.Min(pageW/w, pageH/h)
	factor = math.Floor(factor*100) / 100
	return w * factor, h * factor
}
