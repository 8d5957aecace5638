package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jmswain/listquery/internal/domain"
)

// MutationResult is the discriminated outcome of a store mutation.
// Store failures are logged and reported here instead of being
// returned as errors; connection release is the store's concern and
// happens on every path.
type MutationResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Record  *domain.Record `json:"record,omitempty"`
}

// CreateRecord inserts a single record.
func (l *Listing) CreateRecord(ctx context.Context, rec domain.Record) MutationResult {
	created, err := l.store.Create(ctx, rec)
	if err != nil {
		log.Printf("[STORE] create record in %q failed: %v", rec.Collection, err)
		return MutationResult{Error: err.Error()}
	}
	return MutationResult{Success: true, Record: &created}
}

// CreateRecords bulk-inserts records.
func (l *Listing) CreateRecords(ctx context.Context, recs []domain.Record) MutationResult {
	if err := l.store.CreateMany(ctx, recs); err != nil {
		log.Printf("[STORE] bulk create of %d records failed: %v", len(recs), err)
		return MutationResult{Error: err.Error()}
	}
	return MutationResult{Success: true}
}

// DeleteRecord removes a record by ID.
func (l *Listing) DeleteRecord(ctx context.Context, id uuid.UUID) MutationResult {
	if err := l.store.Delete(ctx, id); err != nil {
		log.Printf("[STORE] delete record %s failed: %v", id, err)
		return MutationResult{Error: err.Error()}
	}
	return MutationResult{Success: true}
}

// UpdateRecords merges a field patch into every listed record.
func (l *Listing) UpdateRecords(ctx context.Context, ids []uuid.UUID, patch map[string]any) MutationResult {
	if err := l.store.UpdateMany(ctx, ids, patch); err != nil {
		log.Printf("[STORE] update of %d records failed: %v", len(ids), err)
		return MutationResult{Error: err.Error()}
	}
	return MutationResult{Success: true}
}
