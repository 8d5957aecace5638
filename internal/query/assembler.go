package query

import (
	"github.com/jmswain/listquery/internal/domain"
)

// Assemble combines a fetched page, its total count, and the page
// request into the response envelope. The optional transform runs
// over the full record slice before assembly; it performs no I/O.
func Assemble(records []domain.Record, total int, req domain.PageRequest, transform domain.Transform) (domain.QueryResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return domain.QueryResult{}, err
	}

	pages, err := TotalPages(total, req.PerPage)
	if err != nil {
		return domain.QueryResult{}, err
	}

	if transform != nil {
		records = transform(records)
	}
	if records == nil {
		records = []domain.Record{}
	}

	return domain.QueryResult{
		Data:        records,
		Total:       total,
		TotalPages:  pages,
		CurrentPage: req.Page,
	}, nil
}
