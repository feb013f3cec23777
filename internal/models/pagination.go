package models

// Pagination describes one page of a list response.
type Pagination struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PerPage     int `json:"per_page"`
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	List       []T        `json:"list"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the page descriptor for total items at perPage.
func NewPagination(total, page, perPage int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
	}
}

// NormalizePage clamps page/perPage to sane bounds.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
