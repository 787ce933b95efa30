package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// pageWindowSize caps how many numbered controls a screen renders.
const pageWindowSize = 5

// NewPagination builds metadata for the requested page. Out-of-range pages
// are clamped into [1, totalPages]; an empty result set clamps to page 1.
func NewPagination(page, pageSize, totalCount int) *Pagination {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: totalCount, TotalPages: totalPages}
}

// Window returns up to five page numbers centered on the current page.
func (p *Pagination) Window() []int {
	start := p.Page - pageWindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindowSize - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - pageWindowSize + 1
		if start < 1 {
			start = 1
		}
	}
	window := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		window = append(window, i)
	}
	return window
}

// ShowFirst reports whether a shortcut to page 1 is needed.
func (p *Pagination) ShowFirst() bool {
	w := p.Window()
	return len(w) > 0 && w[0] > 1
}

// ShowLast reports whether a shortcut to the last page is needed.
func (p *Pagination) ShowLast() bool {
	w := p.Window()
	return len(w) > 0 && w[len(w)-1] < p.TotalPages
}

// PageSlice cuts the visible page out of the full record set. The slice is a
// pure recomputation over records already in hand; it never refetches.
func PageSlice[T any](records []T, page, pageSize int) ([]T, *Pagination) {
	p := NewPagination(page, pageSize, len(records))
	start := (p.Page - 1) * p.PageSize
	if start > len(records) {
		start = len(records)
	}
	end := start + p.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], p
}
