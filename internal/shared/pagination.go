package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Limit is the page size with the default applied.
func (p Pagination) Limit() int {
	if p.PerPage <= 0 {
		return 20
	}
	return p.PerPage
}

// Offset is the row offset for the current page.
func (p Pagination) Offset() int {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
