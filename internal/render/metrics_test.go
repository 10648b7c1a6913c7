package render

import (
	"math"
	"testing"
)

func TestTextBox(t *testing.T) {
	pol := DefaultPolicy()

	boxW, boxH := pol.TextBox(100, 24, 0)
	if boxW != 104 {
		t.Errorf("boxW = %v, want 104", boxW)
	}
	if boxH != 24*0.4+1 {
		t.Errorf("boxH = %v, want %v", boxH, 24*0.4+1)
	}

	// Empty text degenerates to a padding-only box.
	boxW, boxH = pol.TextBox(0, 24, 3)
	if boxW != 10 {
		t.Errorf("empty boxW = %v, want 10", boxW)
	}
	if boxH != 24*0.4+7 {
		t.Errorf("empty boxH = %v, want %v", boxH, 24*0.4+7)
	}
}

func TestTextBaseline(t *testing.T) {
	pol := DefaultPolicy()
	boxW, boxH := pol.TextBox(100, 20, 0)
	_ = boxW

	x, y := pol.TextBaseline(50, 100, boxH, 20, 0)
	if x != 52 {
		t.Errorf("x = %v, want 52", x)
	}
	want := 100 + (boxH-20*0.4)/2 - 20*0.05
	if math.Abs(y-want) > 1e-9 {
		t.Errorf("y = %v, want %v", y, want)
	}
}

func TestResolveImageSize(t *testing.T) {
	tests := []struct {
		name          string
		scale         float64
		width, height int
		w, h          float64
	}{
		{"natural", 0, 0, 0, 400, 200},
		{"scale", 0.5, 0, 0, 200, 100},
		{"width", 0, 100, 0, 100, 50},
		{"height", 0, 0, 100, 200, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ResolveImageSize(400, 200, tt.scale, tt.width, tt.height)
			if w != tt.w || h != tt.h {
				t.Errorf("ResolveImageSize = (%v, %v), want (%v, %v)", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestClampToPage(t *testing.T) {
	// 300x50 on a 100x100 page: min(100/300, 100/50) = 0.333..., truncated
	// to 0.33, never rounded up.
	w, h := ClampToPage(300, 50, 100, 100)
	if w != 99 || h != 16.5 {
		t.Errorf("ClampToPage = (%v, %v), want (99, 16.5)", w, h)
	}

	// A box that fits passes through untouched.
	w, h = ClampToPage(80, 90, 100, 100)
	if w != 80 || h != 90 {
		t.Errorf("ClampToPage = (%v, %v), want (80, 90)", w, h)
	}

	// Tall overflow clamps on height.
	w, h = ClampToPage(50, 400, 100, 100)
	if h > 100 || w != 50*0.25 {
		t.Errorf("ClampToPage = (%v, %v)", w, h)
	}
}
