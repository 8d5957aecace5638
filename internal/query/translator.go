package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jmswain/listquery/internal/domain"
)

// ErrMalformedRange is returned when a range-classified value is not
// a [lower, upper] pair.
var ErrMalformedRange = errors.New("range filter requires a [lower, upper] pair")

// Translate converts a condition map into a storage predicate using
// the classification priority documented on Classify. Keys are
// processed in sorted order so translation is deterministic and free
// of hidden state. Unknown keys are translated, not rejected; key
// allowlisting is ValidateKeys' job.
//
// Only one address field is supported per condition map: when several
// are present the last one in key order replaces the OR group built
// by the earlier ones.
func Translate(cond domain.ConditionMap, sets domain.CategorySets) (domain.Predicate, error) {
	pred := domain.NewPredicate()

	keys := make([]string, 0, len(cond))
	for key := range cond {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, field := range keys {
		value := cond[field]

		switch Classify(field, value, sets) {
		case CategoryAddress:
			pred.Or = translateAddress(field, value)
		case CategoryRange:
			pair, ok := asList(value)
			if !ok || len(pair) != 2 {
				return domain.Predicate{}, fmt.Errorf("field %q: %w", field, ErrMalformedRange)
			}
			pred.Fields[field] = domain.Clause{Op: domain.OpRange, Lower: pair[0], Upper: pair[1]}
		case CategoryAllOf:
			pred.Fields[field] = domain.Clause{Op: domain.OpHasEvery, Values: toValueList(value)}
		case CategoryAnyOf:
			pred.Fields[field] = domain.Clause{Op: domain.OpHasSome, Values: toValueList(value)}
		case CategoryList:
			pred.Fields[field] = domain.Clause{Op: domain.OpIn, Values: toValueList(value)}
		case CategorySearch:
			pred.Fields[field] = domain.Clause{Op: domain.OpContains, Value: value}
		default:
			pred.Fields[field] = domain.Clause{Op: domain.OpEquals, Value: value}
		}
	}

	return pred, nil
}

// translateAddress turns a list of nested filter objects into OR'd
// sub-predicates. Each object is stripped of nil-valued keys first;
// an object left with only a country entry matches on the country
// path alone, anything else matches the whole stripped object.
func translateAddress(field string, value any) []domain.Predicate {
	items, ok := asList(value)
	if !ok {
		items = []any{value}
	}

	var group []domain.Predicate
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		stripped := make(map[string]any, len(obj))
		for key, val := range obj {
			if val == nil {
				continue
			}
			stripped[key] = val
		}
		if len(stripped) == 0 {
			continue
		}

		var clause domain.Clause
		if country, only := countryOnly(stripped); only {
			clause = domain.Clause{Op: domain.OpPathEquals, Path: []string{"country"}, Value: country}
		} else {
			clause = domain.Clause{Op: domain.OpPathEquals, Value: stripped}
		}

		sub := domain.NewPredicate()
		sub.Fields[field] = clause
		group = append(group, sub)
	}
	return group
}

func countryOnly(obj map[string]any) (any, bool) {
	country, ok := obj["country"]
	if !ok || len(obj) != 1 {
		return nil, false
	}
	return country, true
}

// toValueList widens value for the list operators; a scalar is
// treated as a one-element list.
func toValueList(value any) []any {
	if list, ok := asList(value); ok {
		return list
	}
	return []any{value}
}
