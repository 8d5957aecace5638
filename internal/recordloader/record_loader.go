package recordloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"github.com/jmswain/listquery/internal/domain"
	"github.com/jmswain/listquery/internal/store"
)

// RecordLoader batches GetByIDs lookups so transforms that hydrate
// referenced records do not issue one store round trip per ID.
type RecordLoader struct {
	Loader *dataloader.Loader
}

// New creates a batched record loader over the store.
func New(recordStore store.RecordStore) *RecordLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		fail := func(err error) []*dataloader.Result {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		ids := make([]uuid.UUID, len(keys))
		for i, key := range keys {
			id, err := uuid.Parse(key.String())
			if err != nil {
				return fail(fmt.Errorf("invalid record id: %w", err))
			}
			ids[i] = id
		}

		records, err := recordStore.GetByIDs(ctx, ids)
		if err != nil {
			return fail(err)
		}

		byID := make(map[uuid.UUID]domain.Record, len(records))
		for _, rec := range records {
			byID[rec.ID] = rec
		}

		// Results must line up with the requested key order; missing
		// records come back as nil data, not errors.
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if rec, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: rec}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}

	return &RecordLoader{Loader: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))}
}

// Load fetches one record through the batching window.
func (l *RecordLoader) Load(ctx context.Context, id uuid.UUID) (domain.Record, bool, error) {
	raw, err := l.Loader.Load(ctx, dataloader.StringKey(id.String()))()
	if err != nil {
		return domain.Record{}, false, err
	}
	if raw == nil {
		return domain.Record{}, false, nil
	}

	rec, ok := raw.(domain.Record)
	if !ok {
		return domain.Record{}, false, fmt.Errorf("unexpected type %T for record %s", raw, id)
	}
	return rec, true, nil
}
