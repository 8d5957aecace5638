package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jmswain/listquery/internal/domain"
)

// fakeStore records the calls the listing service makes and returns
// canned results.
type fakeStore struct {
	records []domain.Record
	total   int

	findErr   error
	countErr  error
	createErr error
	deleteErr error
	updateErr error

	lastPredicate domain.Predicate
	lastLimit     int
	lastOffset    int
	findCalls     int
	countCalls    int
}

func (f *fakeStore) FindMany(_ context.Context, _ string, pred domain.Predicate, _ *domain.Sort, limit, offset int) ([]domain.Record, error) {
	f.findCalls++
	f.lastPredicate = pred
	f.lastLimit = limit
	f.lastOffset = offset
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records, nil
}

func (f *fakeStore) Count(_ context.Context, _ string, _ domain.Predicate) (int, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.total, nil
}

func (f *fakeStore) GetByIDs(_ context.Context, _ []uuid.UUID) ([]domain.Record, error) {
	return f.records, nil
}

func (f *fakeStore) Create(_ context.Context, rec domain.Record) (domain.Record, error) {
	if f.createErr != nil {
		return domain.Record{}, f.createErr
	}
	return rec, nil
}

func (f *fakeStore) CreateMany(_ context.Context, _ []domain.Record) error { return f.createErr }
func (f *fakeStore) Delete(_ context.Context, _ uuid.UUID) error           { return f.deleteErr }
func (f *fakeStore) UpdateMany(_ context.Context, _ []uuid.UUID, _ map[string]any) error {
	return f.updateErr
}

func TestFindPage_BuildsWindowAndEnvelope(t *testing.T) {
	fake := &fakeStore{
		records: []domain.Record{domain.NewRecord("people", map[string]any{"name": "ann"})},
		total:   95,
	}
	listing := NewListing(fake)

	result, err := listing.FindPage(context.Background(), ListParams{
		Collection: "people",
		Conditions: domain.ConditionMap{"tags": []any{"a", "b"}},
		Categories: domain.CategorySets{AnyOf: domain.NewFieldSet("tags")},
		Page:       domain.PageRequest{Page: 2, PerPage: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.lastOffset != 10 || fake.lastLimit != 10 {
		t.Fatalf("wrong window: offset=%d limit=%d", fake.lastOffset, fake.lastLimit)
	}
	if clause := fake.lastPredicate.Fields["tags"]; clause.Op != domain.OpHasSome {
		t.Fatalf("predicate not translated: %#v", fake.lastPredicate)
	}
	if result.Total != 95 || result.TotalPages != 10 || result.CurrentPage != 2 {
		t.Fatalf("wrong envelope: %+v", result)
	}
	if fake.findCalls != 1 || fake.countCalls != 1 {
		t.Fatalf("expected one find and one count, got %d/%d", fake.findCalls, fake.countCalls)
	}
}

func TestFindPage_AllowlistRejection(t *testing.T) {
	listing := NewListing(&fakeStore{})

	_, err := listing.FindPage(context.Background(), ListParams{
		Collection:    "people",
		Conditions:    domain.ConditionMap{"secret": 1},
		AllowedFields: []string{"name"},
	})
	if !errors.Is(err, ErrUnauthorizedField) {
		t.Fatalf("expected ErrUnauthorizedField, got %v", err)
	}
}

func TestFindPage_ReadErrorsPropagate(t *testing.T) {
	storeErr := errors.New("connection reset")
	listing := NewListing(&fakeStore{findErr: storeErr})

	_, err := listing.FindPage(context.Background(), ListParams{Collection: "people"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("read failures must propagate unchanged, got %v", err)
	}

	listing = NewListing(&fakeStore{countErr: storeErr})
	if _, err := listing.FindPage(context.Background(), ListParams{Collection: "people"}); !errors.Is(err, storeErr) {
		t.Fatalf("count failures must propagate unchanged, got %v", err)
	}
}

func TestFindPage_TransformApplied(t *testing.T) {
	fake := &fakeStore{
		records: []domain.Record{domain.NewRecord("people", map[string]any{"name": "ann", "ssn": "123"})},
		total:   1,
	}
	listing := NewListing(fake)

	result, err := listing.FindPage(context.Background(), ListParams{
		Collection: "people",
		Transform: func(in []domain.Record) []domain.Record {
			out := make([]domain.Record, len(in))
			for i, rec := range in {
				delete(rec.Fields, "ssn")
				out[i] = rec
			}
			return out
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.Data[0].Fields["ssn"]; ok {
		t.Fatalf("transform was not applied")
	}
}

func TestMutations_FailuresBecomeResults(t *testing.T) {
	storeErr := errors.New("store offline")
	listing := NewListing(&fakeStore{createErr: storeErr, deleteErr: storeErr, updateErr: storeErr})
	ctx := context.Background()

	if res := listing.CreateRecord(ctx, domain.NewRecord("people", nil)); res.Success || res.Error == "" {
		t.Fatalf("expected failed mutation result, got %+v", res)
	}
	if res := listing.CreateRecords(ctx, []domain.Record{domain.NewRecord("people", nil)}); res.Success {
		t.Fatalf("expected failed bulk result, got %+v", res)
	}
	if res := listing.DeleteRecord(ctx, uuid.New()); res.Success {
		t.Fatalf("expected failed delete result, got %+v", res)
	}
	if res := listing.UpdateRecords(ctx, []uuid.UUID{uuid.New()}, map[string]any{"x": 1}); res.Success {
		t.Fatalf("expected failed update result, got %+v", res)
	}
}

func TestMutations_Success(t *testing.T) {
	listing := NewListing(&fakeStore{})
	ctx := context.Background()

	res := listing.CreateRecord(ctx, domain.NewRecord("people", map[string]any{"name": "ann"}))
	if !res.Success || res.Record == nil {
		t.Fatalf("expected successful create with record, got %+v", res)
	}
	if res := listing.DeleteRecord(ctx, uuid.New()); !res.Success {
		t.Fatalf("expected successful delete, got %+v", res)
	}
}
