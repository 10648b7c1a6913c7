package render

import (
	"regexp"
	"strconv"
)

var pageVarRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ExpandPageVariables replaces page placeholders in watermark text.
//
// Supported variables:
//   - {{Page}} - the current page number (1-based)
//   - {{Pages}} - the total page count
//
// Unknown variables are kept as-is.
func ExpandPageVariables(text string, page PageContext) string {
	return pageVarRegex.ReplaceAllStringFunc(text, func(match string) string {
		switch match[2 : len(match)-2] {
		case "Page":
			return strconv.Itoa(page.Page)
		case "Pages":
			return strconv.Itoa(page.Pages)
		default:
			return match
		}
	})
}
