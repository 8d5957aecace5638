package query

import (
	"errors"

	"github.com/jmswain/listquery/internal/domain"
)

const (
	// DefaultPage is used when the caller does not pick a page.
	DefaultPage = 1
	// DefaultPerPage is used when the caller does not pick a size.
	DefaultPerPage = 20
)

// ErrInvalidPageSize is returned when a page size resolves to zero or
// negative where a positive one is required.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Normalize fills in pagination defaults. Page and PerPage of zero
// (or a negative page) mean "not provided"; an explicitly negative
// PerPage is rejected so no later arithmetic can divide by zero or
// skip backwards.
func Normalize(req domain.PageRequest) (domain.PageRequest, error) {
	if req.Page <= 0 {
		req.Page = DefaultPage
	}
	if req.PerPage == 0 {
		req.PerPage = DefaultPerPage
	}
	if req.PerPage < 0 {
		return domain.PageRequest{}, ErrInvalidPageSize
	}
	return req, nil
}

// Window converts a normalized page request into the skip count and
// row cap for the store query.
func Window(req domain.PageRequest) (offset, limit int) {
	return (req.Page - 1) * req.PerPage, req.PerPage
}

// TotalPages returns ceil(total / perPage).
func TotalPages(total, perPage int) (int, error) {
	if perPage <= 0 {
		return 0, ErrInvalidPageSize
	}
	if total <= 0 {
		return 0, nil
	}
	return (total + perPage - 1) / perPage, nil
}
