package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmswain/listquery/internal/domain"
)

// RecordStore defines the storage operations the listing layer
// consumes. FindMany and Count take the same predicate so a paginated
// fetch can run them back to back; the count may drift from the page
// under concurrent writes, which callers accept.
type RecordStore interface {
	FindMany(ctx context.Context, collection string, pred domain.Predicate, orderBy *domain.Sort, limit, offset int) ([]domain.Record, error)
	Count(ctx context.Context, collection string, pred domain.Predicate) (int, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Record, error)

	Create(ctx context.Context, rec domain.Record) (domain.Record, error)
	CreateMany(ctx context.Context, recs []domain.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateMany(ctx context.Context, ids []uuid.UUID, patch map[string]any) error
}
