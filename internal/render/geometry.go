package render

import "fmt"

// Position is one of the nine page anchors of a 3x3 grid.
type Position int

const (
	TopLeft Position = iota
	TopCenter
	TopRight
	MiddleLeft
	Center
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var positionNames = map[Position]string{
	TopLeft:      "top-left",
	TopCenter:    "top-center",
	TopRight:     "top-right",
	MiddleLeft:   "middle-left",
	Center:       "center",
	MiddleRight:  "middle-right",
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether p is one of the nine anchors.
func (p Position) Valid() bool {
	_, ok := positionNames[p]
	return ok
}

// ParsePosition parses an anchor keyword. "middle-center" and "center" are
// synonyms.
func ParsePosition(s string) (Position, error) {
	if s == "middle-center" {
		return Center, nil
	}
	for p, name := range positionNames {
		if s == name {
			return p, nil
		}
	}
	return Center, fmt.Errorf("invalid position: %q (valid: top/middle/bottom x left/center/right)", s)
}

// Policy holds the geometry conventions applied uniformly across a run.
// Coordinates are PDF user space: origin at the lower-left corner of the
// media box, y growing upward.
type Policy struct {
	// AnchorMargin is subtracted from top-anchored boxes only.
	AnchorMargin float64
	// LineHeightFactor converts a font size into the text box height.
	LineHeightFactor float64
	// TextPadX and TextPadY pad each side of the text box.
	TextPadX float64
	TextPadY float64
}

// DefaultPolicy returns the conventions used when none are configured: zero
// anchor margin and a tight text box.
func DefaultPolicy() Policy {
	return Policy{
		AnchorMargin:     0,
		LineHeightFactor: 0.4,
		TextPadX:         2,
		TextPadY:         0.5,
	}
}

// ResolveAnchor returns the lower-left corner of a boxW x boxH box anchored
// at the given position on a pageW x pageH page. A box larger than the page
// yields negative coordinates; the box overflows and is clipped by the
// viewer, which is not an error.
func (pol Policy) ResolveAnchor(p Position, pageW, pageH, boxW, boxH float64) (x, y float64) {
	switch p {
	case TopLeft, MiddleLeft, BottomLeft:
		x = 0
	case TopRight, MiddleRight, BottomRight:
		x = pageW - boxW
	default:
		x = (pageW - boxW) / 2
	}

	switch p {
	case TopLeft, TopCenter, TopRight:
		y = pageH - boxH - pol.AnchorMargin
	case BottomLeft, BottomCenter, BottomRight:
		y = 0
	default:
		y = (pageH - boxH) / 2
	}

	return x, y
}

// BoxCenter returns the rotation pivot for a box placed at (x, y).
func BoxCenter(x, y, boxW, boxH float64) (cx, cy float64) {
	return x + boxW/2, y + boxH/2
}
