package query

import (
	"github.com/jmswain/listquery/internal/domain"
)

// reservedConnectors are the logical connectors of the predicate
// language; they always pass key validation.
var reservedConnectors = domain.NewFieldSet("AND", "OR", "NOT")

// Project returns a copy of obj restricted to the allowed fields.
// Keys holding nil are dropped, and keys listed in dateFields are
// replaced by their NormalizeTime result (dropped when that is nil).
func Project(obj map[string]any, allowed []string, dateFields []string) map[string]any {
	dates := domain.NewFieldSet(dateFields...)

	out := make(map[string]any, len(allowed))
	for _, field := range allowed {
		value, ok := obj[field]
		if !ok || value == nil {
			continue
		}
		if dates.Has(field) {
			if t := NormalizeTime(value); t != nil {
				out[field] = *t
			}
			continue
		}
		out[field] = value
	}
	return out
}

// ValidateKeys reports whether every top-level key of the condition
// map is either an allowed field or a reserved logical connector.
// Callers use a false result to reject requests that would otherwise
// build predicates over unapproved fields.
func ValidateKeys(cond domain.ConditionMap, allowed []string) bool {
	set := domain.NewFieldSet(allowed...)
	for key := range cond {
		if set.Has(key) || reservedConnectors.Has(key) {
			continue
		}
		return false
	}
	return true
}
