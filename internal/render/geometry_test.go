package render

import "testing"

func TestResolveAnchor(t *testing.T) {
	pol := DefaultPolicy()
	const pageW, pageH = 612.0, 792.0
	const boxW, boxH = 100.0, 50.0

	tests := []struct {
		pos  Position
		x, y float64
	}{
		{TopLeft, 0, 742},
		{TopCenter, 256, 742},
		{TopRight, 512, 742},
		{MiddleLeft, 0, 371},
		{Center, 256, 371},
		{MiddleRight, 512, 371},
		{BottomLeft, 0, 0},
		{BottomCenter, 256, 0},
		{BottomRight, 512, 0},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			x, y := pol.ResolveAnchor(tt.pos, pageW, pageH, boxW, boxH)
			if x != tt.x || y != tt.y {
				t.Errorf("ResolveAnchor(%v) = (%v, %v), want (%v, %v)", tt.pos, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestResolveAnchorZeroBox(t *testing.T) {
	pol := DefaultPolicy()
	for pos := range positionNames {
		x, y := pol.ResolveAnchor(pos, 612, 792, 0, 0)
		if x < 0 || x > 612 || y < 0 || y > 792 {
			t.Errorf("ResolveAnchor(%v) = (%v, %v), outside page", pos, x, y)
		}
	}
}

func TestResolveAnchorCenterFormula(t *testing.T) {
	pol := DefaultPolicy()
	cases := []struct{ pw, ph, bw, bh float64 }{
		{612, 792, 100, 50},
		{100, 100, 300, 50}, // box wider than page
		{842, 595, 1, 1},
	}
	for _, c := range cases {
		x, y := pol.ResolveAnchor(Center, c.pw, c.ph, c.bw, c.bh)
		if x != (c.pw-c.bw)/2 || y != (c.ph-c.bh)/2 {
			t.Errorf("center anchor on %vx%v box %vx%v = (%v, %v)", c.pw, c.ph, c.bw, c.bh, x, y)
		}
	}
}

func TestResolveAnchorOverflow(t *testing.T) {
	pol := DefaultPolicy()
	x, y := pol.ResolveAnchor(TopRight, 100, 100, 300, 150)
	if x != -200 {
		t.Errorf("x = %v, want -200", x)
	}
	if y != -50 {
		t.Errorf("y = %v, want -50", y)
	}
}

func TestResolveAnchorMargin(t *testing.T) {
	pol := DefaultPolicy()
	pol.AnchorMargin = 10

	_, y := pol.ResolveAnchor(TopLeft, 612, 792, 100, 50)
	if y != 792-50-10 {
		t.Errorf("top y = %v, want %v", y, 792-50-10)
	}

	// The margin applies to top anchors only.
	_, y = pol.ResolveAnchor(BottomLeft, 612, 792, 100, 50)
	if y != 0 {
		t.Errorf("bottom y = %v, want 0", y)
	}
}

func TestParsePosition(t *testing.T) {
	for pos, name := range positionNames {
		got, err := ParsePosition(name)
		if err != nil || got != pos {
			t.Errorf("ParsePosition(%q) = %v, %v", name, got, err)
		}
	}

	if got, err := ParsePosition("middle-center"); err != nil || got != Center {
		t.Errorf("ParsePosition(middle-center) = %v, %v", got, err)
	}
	if _, err := ParsePosition("upper-left"); err == nil {
		t.Error("expected error for unknown position")
	}
}

func TestBoxCenter(t *testing.T) {
	cx, cy := BoxCenter(10, 20, 100, 50)
	if cx != 60 || cy != 45 {
		t.Errorf("BoxCenter = (%v, %v), want (60, 45)", cx, cy)
	}
}
