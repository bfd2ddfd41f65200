package shared

// ListFilter carries the pagination and search options shared by all
// tenant-scoped list queries.
type ListFilter struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// DefaultPageSize is applied when a list query does not specify a page size
const DefaultPageSize = 20

// MaxPageSize caps a caller-supplied page size
const MaxPageSize = 200

// Normalize clamps pagination values into valid ranges
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Offset returns the row offset for the current page
func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// TotalPages computes the page count for a result total
func (f *ListFilter) TotalPages(total int64) int {
	if f.PageSize <= 0 {
		return 0
	}
	pages := total / int64(f.PageSize)
	if total%int64(f.PageSize) != 0 {
		pages++
	}
	return int(pages)
}
