package listview

// PageInfo contains metadata about a paginated result set, ready for a pager.
type PageInfo struct {
	TotalCount      int
	PageCount       int
	CurrentPage     int
	PageSize        int
	HasNextPage     bool
	HasPreviousPage bool
}

// PageCount returns the number of pages needed for total rows, ceil(total/pageSize).
// It returns 0 for an empty collection and 1 for a non-positive page size.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// NewPageInfo returns a PageInfo filled in from offset pagination values.
func NewPageInfo(total, pageSize, currentOffset int) PageInfo {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	current := currentOffset/pageSize + 1

	return PageInfo{
		TotalCount:      total,
		PageCount:       PageCount(total, pageSize),
		CurrentPage:     current,
		PageSize:        pageSize,
		HasNextPage:     currentOffset+pageSize < total,
		HasPreviousPage: currentOffset > 0,
	}
}

// NewEmptyPageInfo returns the PageInfo of an empty list: one empty page.
func NewEmptyPageInfo(pageSize int) PageInfo {
	return NewPageInfo(0, pageSize, 0)
}
