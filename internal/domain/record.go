package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is a stored document: a flat identifier plus a JSONB-backed
// field map. Collections partition records the way tables partition
// rows; the listing layer treats collection names as opaque.
type Record struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewRecord creates a record with a fresh ID and timestamps.
func NewRecord(collection string, fields map[string]any) Record {
	now := time.Now()
	return Record{
		ID:         uuid.New(),
		Collection: collection,
		Fields:     copyFields(fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FieldsJSON marshals the field map for JSONB storage.
func (r *Record) FieldsJSON() (json.RawMessage, error) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	return json.Marshal(r.Fields)
}

// FieldsFromJSON decodes a JSONB column back into a field map.
func FieldsFromJSON(raw json.RawMessage) (map[string]any, error) {
	var fields map[string]any
	err := json.Unmarshal(raw, &fields)
	return fields, err
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
