package pdfmark

import "testing"

func TestPageSelectorMatches(t *testing.T) {
	const total = 10

	tests := []struct {
		name     string
		selector PageSelector
		matching []int
	}{
		{"empty", nil, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"all", PageSelector{"all"}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"last", PageSelector{"last"}, []int{10}},
		{"single", PageSelector{"3"}, []int{3}},
		{"range", PageSelector{"2-5"}, []int{2, 3, 4, 5}},
		{"range to last", PageSelector{"8-last"}, []int{8, 9, 10}},
		{"union", PageSelector{"1", "9-last"}, []int{1, 9, 10}},
		{"unparseable", PageSelector{"x"}, nil},
		{"unparseable range", PageSelector{"a-b"}, nil},
		{"unparseable among valid", PageSelector{"x", "2"}, []int{2}},
		{"all short circuits", PageSelector{"x", "all"}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"whitespace", PageSelector{" 2 - 4 "}, []int{2, 3, 4}},
		{"case", PageSelector{"ALL"}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make(map[int]bool, len(tt.matching))
			for _, p := range tt.matching {
				want[p] = true
			}
			for page := 1; page <= total; page++ {
				if got := tt.selector.Matches(page, total); got != want[page] {
					t.Errorf("Matches(%d, %d) = %v, want %v", page, total, got, want[page])
				}
			}
		})
	}
}

func TestPageSelectorLastEqualsTotal(t *testing.T) {
	for total := 1; total <= 5; total++ {
		for page := 1; page <= total; page++ {
			got := PageSelector{"last"}.Matches(page, total)
			if got != (page == total) {
				t.Errorf("last: Matches(%d, %d) = %v", page, total, got)
			}
		}
	}
}
