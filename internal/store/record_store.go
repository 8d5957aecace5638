package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmswain/listquery/internal/domain"
)

// pgRecordStore implements RecordStore over a pgx connection pool.
type pgRecordStore struct {
	pool *pgxpool.Pool
}

// NewPGRecordStore creates a Postgres-backed record store.
func NewPGRecordStore(pool *pgxpool.Pool) RecordStore {
	return &pgRecordStore{pool: pool}
}

// FindMany fetches one page of records matching the predicate.
func (s *pgRecordStore) FindMany(ctx context.Context, collection string, pred domain.Predicate, orderBy *domain.Sort, limit, offset int) ([]domain.Record, error) {
	sql, args, err := BuildSelect(collection, pred, orderBy, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns how many records match the predicate.
func (s *pgRecordStore) Count(ctx context.Context, collection string, pred domain.Predicate) (int, error) {
	sql, args, err := BuildCount(collection, pred)
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var count int
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// GetByIDs retrieves multiple records by their IDs.
func (s *pgRecordStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Record, error) {
	if len(ids) == 0 {
		return []domain.Record{}, nil
	}

	rows, err := s.pool.Query(ctx,
		"SELECT id, collection, fields, created_at, updated_at FROM records WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get records by IDs: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Create inserts a new record. The connection is acquired explicitly
// and released on every exit path.
func (s *pgRecordStore) Create(ctx context.Context, rec domain.Record) (domain.Record, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	fieldsJSON, err := rec.FieldsJSON()
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to marshal fields: %w", err)
	}

	row := conn.QueryRow(ctx,
		`INSERT INTO records (id, collection, fields) VALUES ($1, $2, $3)
		 RETURNING id, collection, fields, created_at, updated_at`,
		rec.ID, rec.Collection, fieldsJSON)

	created, err := scanRecordRow(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to create record: %w", err)
	}
	return created, nil
}

// CreateMany bulk-inserts records in one transaction via COPY.
func (s *pgRecordStore) CreateMany(ctx context.Context, recs []domain.Record) error {
	if len(recs) == 0 {
		return nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"records"},
		[]string{"id", "collection", "fields", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			rec := recs[i]
			if rec.ID == uuid.Nil {
				rec.ID = uuid.New()
			}
			fieldsJSON, err := rec.FieldsJSON()
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to marshal fields: %w", i, err)
			}
			return []any{rec.ID, rec.Collection, fieldsJSON, now, now}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// Delete removes a record by ID.
func (s *pgRecordStore) Delete(ctx context.Context, id uuid.UUID) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "DELETE FROM records WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// UpdateMany merges the patch into the field map of every listed
// record.
func (s *pgRecordStore) UpdateMany(ctx context.Context, ids []uuid.UUID, patch map[string]any) error {
	if len(ids) == 0 {
		return nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}

	_, err = conn.Exec(ctx,
		"UPDATE records SET fields = fields || $2::jsonb, updated_at = now() WHERE id = ANY($1)",
		ids, patchJSON)
	if err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]domain.Record, error) {
	records := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record rows: %w", err)
	}
	return records, nil
}

func scanRecordRow(row pgx.Row) (domain.Record, error) {
	var (
		rec       domain.Record
		fieldsRaw json.RawMessage
	)
	if err := row.Scan(&rec.ID, &rec.Collection, &fieldsRaw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return domain.Record{}, err
	}

	fields, err := domain.FieldsFromJSON(fieldsRaw)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to decode fields for record %s: %w", rec.ID, err)
	}
	rec.Fields = fields
	return rec, nil
}
