package render

import "errors"

// Render draws the text watermark onto the canvas. The background rectangle
// is drawn first so the glyphs always stay on top of it.
func (e TextElement) Render(c *Canvas, page PageContext) error {
	if e.Font == nil {
		return errors.New("text element has no font")
	}

	content := ExpandPageVariables(e.Content, page)
	geom := c.Geometry()
	pol := c.Policy()

	textWidth := c.MeasureTextWidth(content, e.Font, e.Size)
	boxW, boxH := pol.TextBox(textWidth, e.Size, e.Padding)
	x, y := pol.ResolveAnchor(e.Position, geom.Width, geom.Height, boxW, boxH)
	pivotX, pivotY := BoxCenter(x, y, boxW, boxH)

	if e.BackgroundOpacity > 0 {
		c.DrawRect(x, y, boxW, boxH, e.BackgroundColor, e.BackgroundOpacity, e.Angle, pivotX, pivotY)
	}

	textX, textY := pol.TextBaseline(x, y, boxH, e.Size, e.Padding)
	c.DrawText(textX, textY, content, e.Font, e.Size, e.TextColor, e.TextOpacity, e.Angle, pivotX, pivotY)

	thickness := e.Size * 0.05
	if e.Underline {
		c.DrawLine(textX, textY-e.Size*0.1, textWidth, thickness, e.TextColor, e.TextOpacity, e.Angle, pivotX, pivotY)
	}
	if e.StrikeThrough {
		c.DrawLine(textX, textY+e.Size*0.25, textWidth, thickness, e.TextColor, e.TextOpacity, e.Angle, pivotX, pivotY)
	}

	return nil
}

// Render draws the image watermark onto the canvas, resolving the sizing
// mode against the image's natural dimensions and clamping the result to the
// page.
func (e ImageElement) Render(c *Canvas, page PageContext) error {
	if e.Image == nil {
		return errors.New("image element has no image")
	}

	geom := c.Geometry()
	pol := c.Policy()

	w, h := ResolveImageSize(e.Image.Width, e.Image.Height, e.Scale, e.Width, e.Height)
	w, h = ClampToPage(w, h, geom.Width, geom.Height)
	x, y := pol.ResolveAnchor(e.Position, geom.Width, geom.Height, w, h)
	pivotX, pivotY := BoxCenter(x, y, w, h)

	c.DrawImage(x, y, w, h, e.Image, e.Opacity, e.Angle, pivotX, pivotY)
	return nil
}
