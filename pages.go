package pdfmark

import (
	"strconv"
	"strings"
)

// PageSelector is an ordered set of selector tokens deciding which pages a
// watermark applies to. Tokens are OR'd together:
//
//	"all"       every page
//	"last"      the final page
//	"3"         page 3
//	"2-5"       pages 2 through 5
//	"2-last"    page 2 through the final page
//
// Page numbers are 1-based. Tokens that do not parse match nothing; an empty
// selector matches every page.
type PageSelector []string

// Matches reports whether page (1-based) is selected out of total pages.
func (s PageSelector) Matches(page, total int) bool {
	if len(s) == 0 {
		return true
	}
	for _, token := range s {
		if tokenMatches(token, page, total) {
			return true
		}
	}
	return false
}

func tokenMatches(token string, page, total int) bool {
	token = strings.TrimSpace(token)
	switch strings.ToLower(token) {
	case "all":
		return true
	case "last":
		return page == total
	}

	if start, end, ok := strings.Cut(token, "-"); ok {
		lo, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return false
		}
		var hi int
		if strings.EqualFold(strings.TrimSpace(end), "last") {
			hi = total
		} else if hi, err = strconv.Atoi(strings.TrimSpace(end)); err != nil {
			return false
		}
		return page >= lo && page <= hi
	}

	n, err := strconv.Atoi(token)
	return err == nil && page == n
}
