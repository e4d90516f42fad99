package api

// Tag list paging defaults, used when the query string omits or garbles them.
const (
	defaultTagPageNumber = 1
	defaultTagPageSize   = 3
)

// totalPages is ceil(totalCount / pageSize). pageSize must be positive.
func totalPages(totalCount int64, pageSize int) int {
	size := int64(pageSize)
	return int((totalCount + size - 1) / size)
}

// clampPageNumber moves an out-of-range page number back by at most one step in
// each direction. It does not clamp to [1, totalPages]: page 5 of 3 becomes 4.
func clampPageNumber(pageNumber, totalPages int) int {
	if pageNumber > totalPages {
		pageNumber--
	}
	if pageNumber < 1 {
		pageNumber++
	}
	return pageNumber
}
