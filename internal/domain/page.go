package domain

// PageRequest is a 1-based page selection. Zero values mean "not
// provided" and are replaced by defaults during normalization.
type PageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Transform post-processes a fetched page of records before it is
// placed in the response envelope. It must be pure: same input, same
// output, no I/O.
type Transform func([]Record) []Record

// QueryResult is the response envelope for a paginated fetch.
type QueryResult struct {
	Data        []Record `json:"data"`
	Total       int      `json:"total"`
	TotalPages  int      `json:"total_pages"`
	CurrentPage int      `json:"current_page"`
}
