package domain

// Guide and testimonial lists are paged; the public site shows them as
// carousels and the admin panel as tables.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams is a validated page request. Page starts at 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams applies defaults to the optional ?page= and ?limit=
// values: a missing or non-positive page is 1, a missing or non-positive
// limit is DefaultPageLimit, and limits above MaxPageLimit are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows to skip.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages is how many pages total rows fill at this limit.
func (p PaginationParams) Pages(total int64) int64 {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
