// Package page defines pagination metadata for search results.
package page

// Meta describes the position of one page within the full match set.
// It is recomputed per request and must always agree with the rows
// actually returned.
type Meta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta computes pagination metadata for a match set of total rows
// viewed at the given page and pageSize. An empty match set yields
// zero total pages with both navigation flags false.
func NewMeta(total, pageNum, pageSize int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Meta{
		Total:      total,
		Page:       pageNum,
		PerPage:    pageSize,
		TotalPages: totalPages,
		HasNext:    pageNum < totalPages,
		HasPrev:    pageNum > 1 && total > 0,
	}
}
