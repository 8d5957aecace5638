package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmswain/listquery/internal/domain"
	"github.com/jmswain/listquery/internal/query"
	"github.com/jmswain/listquery/internal/store"
)

// ErrUnauthorizedField is returned when a condition map uses a field
// outside the configured allowlist.
var ErrUnauthorizedField = errors.New("condition map uses a field outside the allowlist")

// ListParams describes one paginated fetch. Conditions and Categories
// are request-scoped, read-only inputs; Transform optionally
// post-processes the fetched page.
type ListParams struct {
	Collection    string
	Conditions    domain.ConditionMap
	Categories    domain.CategorySets
	Page          domain.PageRequest
	OrderBy       *domain.Sort
	Transform     domain.Transform
	AllowedFields []string
}

// Listing translates caller conditions into predicates and runs
// paginated fetches and mutations against the record store.
type Listing struct {
	store store.RecordStore
}

// NewListing creates a listing service over the given store.
func NewListing(recordStore store.RecordStore) *Listing {
	return &Listing{store: recordStore}
}

// FindPage builds the predicate, fetches one page, counts the total,
// and assembles the response envelope. The page query and the count
// run sequentially; the total may drift under concurrent writes.
// Store failures on this read path propagate to the caller unchanged,
// unlike the mutation paths.
func (l *Listing) FindPage(ctx context.Context, params ListParams) (domain.QueryResult, error) {
	if len(params.AllowedFields) > 0 && !query.ValidateKeys(params.Conditions, params.AllowedFields) {
		return domain.QueryResult{}, ErrUnauthorizedField
	}

	page, err := query.Normalize(params.Page)
	if err != nil {
		return domain.QueryResult{}, err
	}

	pred, err := query.Translate(params.Conditions, params.Categories)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("failed to translate conditions: %w", err)
	}

	offset, limit := query.Window(page)

	records, err := l.store.FindMany(ctx, params.Collection, pred, params.OrderBy, limit, offset)
	if err != nil {
		return domain.QueryResult{}, err
	}

	total, err := l.store.Count(ctx, params.Collection, pred)
	if err != nil {
		return domain.QueryResult{}, err
	}

	return query.Assemble(records, total, page, params.Transform)
}
