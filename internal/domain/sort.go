package domain

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortField enumerates what a record listing can be ordered by.
type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldUpdatedAt SortField = "updated_at"
	// SortFieldValue orders by a key inside the JSONB field map; the
	// key is carried in Sort.Key.
	SortFieldValue SortField = "value"
)

// Sort captures ordering preferences for record listings.
type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
	Key       string        `json:"key,omitempty"`
}
