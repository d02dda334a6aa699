package kernel

// PaginationOptions carries page-based pagination parameters
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the row offset for the requested page
func (p PaginationOptions) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageInfo describes the position of a page within the full result set
type PageInfo struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Paginated wraps one page of results of any item type
type Paginated[T any] struct {
	Items []T      `json:"items"`
	Page  PageInfo `json:"page"`
	Empty bool     `json:"empty"`
}

// NewPaginated builds a Paginated result from a page of items and a total count
func NewPaginated[T any](items []T, opts PaginationOptions, total int64) *Paginated[T] {
	totalPages := 0
	if opts.PageSize > 0 {
		totalPages = int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	}
	return &Paginated[T]{
		Items: items,
		Page: PageInfo{
			Number:     opts.Page,
			Size:       opts.PageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
		Empty: len(items) == 0,
	}
}
