package pagination

// Metadata describes the page returned alongside the data.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Response wraps one page of items.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse builds a Response from a page of data and its metadata.
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	return Response[T]{
		Data:       data,
		Pagination: metadata,
	}
}

// TotalPages is ceil(total/limit), and at least 1.
func TotalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Slice returns the page of items selected by params. A page past the end
// yields an empty, non-nil slice.
func Slice[T any](items []T, params Params) ([]T, Metadata) {
	meta := Metadata{
		Total:      int64(len(items)),
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: TotalPages(int64(len(items)), params.Limit),
	}
	start := params.Offset()
	if start < 0 || start >= len(items) {
		return []T{}, meta
	}
	end := min(start+params.Limit, len(items))
	return items[start:end], meta
}
