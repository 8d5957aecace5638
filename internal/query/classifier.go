package query

import (
	"reflect"

	"github.com/jmswain/listquery/internal/domain"
)

// Category is the translation rule selected for a condition entry.
type Category int

const (
	CategoryAddress Category = iota
	CategoryRange
	CategoryAllOf
	CategoryAnyOf
	CategoryList
	CategorySearch
	CategoryEquals
)

// Classify picks the translation rule for one condition entry. The
// priority order is a contract: Address wins over Range, Range (only
// when the value is list-shaped) wins over AllOf, AllOf over AnyOf; a
// list value in no category falls back to CategoryList, a scalar in
// the search set to CategorySearch, and everything else to
// CategoryEquals. A field listed in several category sets is resolved
// here, deterministically, rather than rejected. The translator
// enforces that a range value holds exactly two elements.
func Classify(field string, value any, sets domain.CategorySets) Category {
	switch {
	case sets.Address.Has(field):
		return CategoryAddress
	case sets.Range.Has(field) && isListShaped(value):
		return CategoryRange
	case sets.AllOf.Has(field):
		return CategoryAllOf
	case sets.AnyOf.Has(field):
		return CategoryAnyOf
	}

	if _, ok := asList(value); ok {
		return CategoryList
	}
	if sets.Search.Has(field) {
		return CategorySearch
	}
	return CategoryEquals
}

func isListShaped(value any) bool {
	_, ok := asList(value)
	return ok
}

// asList widens the slice shapes a caller can reasonably hand us into
// []any. Byte slices and strings are scalars, not lists.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []byte, string:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
