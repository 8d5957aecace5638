package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmswain/listquery/internal/domain"
)

// builder accumulates positional arguments while predicate clauses
// are rendered into SQL fragments.
type builder struct {
	args []any
}

func (b *builder) bind(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// jsonField renders access to a key of the JSONB column as jsonb.
func jsonField(key string) string {
	return "fields->" + quoteLiteral(key)
}

// textField renders access to a key of the JSONB column as text.
func textField(key string) string {
	return "fields->>" + quoteLiteral(key)
}

// textValue flattens a filter value for comparison against the text
// form of a JSONB member.
func textValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func textValues(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = textValue(v)
	}
	return out
}

// BuildSelect renders a predicate into the page query for a
// collection. Clauses are emitted in sorted field order so the same
// predicate always yields the same SQL.
func BuildSelect(collection string, pred domain.Predicate, orderBy *domain.Sort, limit, offset int) (string, []any, error) {
	b := &builder{}

	where, err := b.whereSQL(collection, pred)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT id, collection, fields, created_at, updated_at FROM records WHERE " + where +
		" ORDER BY " + sortSQL(orderBy) +
		" LIMIT " + b.bind(limit) + " OFFSET " + b.bind(offset)
	return sql, b.args, nil
}

// BuildCount renders the matching count query for the same predicate.
func BuildCount(collection string, pred domain.Predicate) (string, []any, error) {
	b := &builder{}

	where, err := b.whereSQL(collection, pred)
	if err != nil {
		return "", nil, err
	}

	return "SELECT COUNT(*) FROM records WHERE " + where, b.args, nil
}

func (b *builder) whereSQL(collection string, pred domain.Predicate) (string, error) {
	conjuncts := []string{"collection = " + b.bind(collection)}

	fragments, err := b.predicateSQL(pred)
	if err != nil {
		return "", err
	}
	conjuncts = append(conjuncts, fragments...)

	return strings.Join(conjuncts, " AND "), nil
}

// predicateSQL returns the AND-combined fragments for one predicate
// level, including its OR group as a single parenthesized fragment.
func (b *builder) predicateSQL(pred domain.Predicate) ([]string, error) {
	keys := make([]string, 0, len(pred.Fields))
	for key := range pred.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var fragments []string
	for _, key := range keys {
		fragment, err := b.clauseSQL(key, pred.Fields[key])
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}

	if len(pred.Or) > 0 {
		var alternatives []string
		for _, sub := range pred.Or {
			subFragments, err := b.predicateSQL(sub)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, "("+strings.Join(subFragments, " AND ")+")")
		}
		fragments = append(fragments, "("+strings.Join(alternatives, " OR ")+")")
	}

	return fragments, nil
}

func (b *builder) clauseSQL(field string, clause domain.Clause) (string, error) {
	switch clause.Op {
	case domain.OpEquals:
		return textField(field) + " = " + b.bind(textValue(clause.Value)), nil
	case domain.OpIn:
		return textField(field) + " = ANY(" + b.bind(textValues(clause.Values)) + ")", nil
	case domain.OpHasSome:
		return jsonField(field) + " ?| " + b.bind(textValues(clause.Values)), nil
	case domain.OpHasEvery:
		return jsonField(field) + " ?& " + b.bind(textValues(clause.Values)), nil
	case domain.OpRange:
		lower := b.bind(textValue(clause.Lower))
		upper := b.bind(textValue(clause.Upper))
		return textField(field) + " >= " + lower + " AND " + textField(field) + " <= " + upper, nil
	case domain.OpContains:
		return textField(field) + " ILIKE " + b.bind("%"+textValue(clause.Value)+"%"), nil
	case domain.OpPathEquals:
		if len(clause.Path) > 0 {
			return jsonField(field) + " #>> " + b.bind(clause.Path) + " = " + b.bind(textValue(clause.Value)), nil
		}
		payload, err := json.Marshal(clause.Value)
		if err != nil {
			return "", fmt.Errorf("failed to marshal pathEquals object for %q: %w", field, err)
		}
		return jsonField(field) + " @> " + b.bind(string(payload)) + "::jsonb", nil
	default:
		return "", fmt.Errorf("unsupported operator %q on field %q", clause.Op, field)
	}
}

func sortSQL(orderBy *domain.Sort) string {
	if orderBy == nil {
		return "created_at DESC"
	}

	direction := "ASC"
	if orderBy.Direction == domain.SortDirectionDesc {
		direction = "DESC"
	}

	switch orderBy.Field {
	case domain.SortFieldUpdatedAt:
		return "updated_at " + direction
	case domain.SortFieldValue:
		return textField(orderBy.Key) + " " + direction
	default:
		return "created_at " + direction
	}
}
