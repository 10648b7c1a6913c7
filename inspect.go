package pdfmark

import (
	"github.com/digitorus/pdfmark/internal/pdf"
)

// DocumentInfo describes a document's page layout.
type DocumentInfo struct {
	Path      string     `json:"path"`
	PageCount int        `json:"page_count"`
	Pages     []PageInfo `json:"pages"`
}

// PageInfo describes one page's media box.
type PageInfo struct {
	Number      int     `json:"number"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Orientation string  `json:"orientation"`
}

// Inspect reads a document's page count and per-page media boxes without
// modifying it.
func Inspect(path string) (*DocumentInfo, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}

	total := doc.PageCount()
	info := &DocumentInfo{
		Path:      path,
		PageCount: total,
		Pages:     make([]PageInfo, 0, total),
	}
	for i := 1; i <= total; i++ {
		geom, err := doc.PageGeometry(i)
		if err != nil {
			return nil, err
		}
		info.Pages = append(info.Pages, PageInfo{
			Number:      i,
			Width:       geom.Width,
			Height:      geom.Height,
			Orientation: geom.Orientation().String(),
		})
	}
	return info, nil
}
