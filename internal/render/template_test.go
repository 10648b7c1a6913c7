package render

import "testing"

func TestExpandPageVariables(t *testing.T) {
	ctx := PageContext{Page: 3, Pages: 10}

	tests := []struct {
		in, want string
	}{
		{"Page {{Page}} of {{Pages}}", "Page 3 of 10"},
		{"{{Page}}{{Page}}", "33"},
		{"no variables", "no variables"},
		{"{{Unknown}}", "{{Unknown}}"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPageVariables(tt.in, ctx); got != tt.want {
			t.Errorf("ExpandPageVariables(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
