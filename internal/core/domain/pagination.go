package domain

// PaginationRequest asks for one page of results. Page is 1-based.
type PaginationRequest struct {
	Page  int
	Limit int
	Sort  []SortField
}

// Skip is the number of records before the requested page. Out-of-range
// pages yield 0 so the store never receives a negative skip.
func (r PaginationRequest) Skip() int64 {
	skip := int64(r.Page-1) * int64(r.Limit)
	if skip < 0 {
		return 0
	}
	return skip
}

// Normalize clamps the request for use at an API boundary: page is at
// least 1, a non-positive limit becomes defaultLimit and limit never
// exceeds maxLimit. Repositories do not call it.
func (r PaginationRequest) Normalize(defaultLimit, maxLimit int) PaginationRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if maxLimit > 0 && r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return r
}

// PaginationMeta describes where a page sits in the full result set.
type PaginationMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// PaginationResult is one page of records plus its metadata.
type PaginationResult[T any] struct {
	Data []*T          `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginationMeta computes page metadata. A non-positive limit gives zero
// total pages rather than dividing by zero.
func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
