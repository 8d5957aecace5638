package store

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jmswain/listquery/internal/domain"
)

func TestBuildSelect_ScalarAndRange(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["age"] = domain.Clause{Op: domain.OpEquals, Value: 30}
	pred.Fields["createdAt"] = domain.Clause{Op: domain.OpRange, Lower: "2024-01-01T00:00:00Z", Upper: "2024-02-01T00:00:00Z"}

	sql, args, err := BuildSelect("people", pred, nil, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT id, collection, fields, created_at, updated_at FROM records " +
		"WHERE collection = $1 " +
		"AND fields->>'age' = $2 " +
		"AND fields->>'createdAt' >= $3 AND fields->>'createdAt' <= $4 " +
		"ORDER BY created_at DESC LIMIT $5 OFFSET $6"
	if sql != want {
		t.Fatalf("wrong SQL:\n got %s\nwant %s", sql, want)
	}

	wantArgs := []any{"people", "30", "2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z", 10, 20}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("wrong args: %#v", args)
	}
}

func TestBuildSelect_ListOperators(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["tags"] = domain.Clause{Op: domain.OpHasSome, Values: []any{"a", "b"}}
	pred.Fields["labels"] = domain.Clause{Op: domain.OpHasEvery, Values: []any{"x"}}
	pred.Fields["status"] = domain.Clause{Op: domain.OpIn, Values: []any{"open", "closed"}}

	sql, args, err := BuildSelect("tickets", pred, nil, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Clauses come out in sorted field order: labels, status, tags.
	if !strings.Contains(sql, "fields->'labels' ?& $2") {
		t.Fatalf("missing hasEvery clause: %s", sql)
	}
	if !strings.Contains(sql, "fields->>'status' = ANY($3)") {
		t.Fatalf("missing in clause: %s", sql)
	}
	if !strings.Contains(sql, "fields->'tags' ?| $4") {
		t.Fatalf("missing hasSome clause: %s", sql)
	}

	if !reflect.DeepEqual(args[1], []string{"x"}) || !reflect.DeepEqual(args[3], []string{"a", "b"}) {
		t.Fatalf("wrong list args: %#v", args)
	}
}

func TestBuildSelect_ContainsAndSort(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["name"] = domain.Clause{Op: domain.OpContains, Value: "ann"}

	orderBy := &domain.Sort{Field: domain.SortFieldValue, Key: "name", Direction: domain.SortDirectionAsc}
	sql, args, err := BuildSelect("people", pred, orderBy, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(sql, "fields->>'name' ILIKE $2") {
		t.Fatalf("missing contains clause: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY fields->>'name' ASC") {
		t.Fatalf("missing value sort: %s", sql)
	}
	if args[1] != "%ann%" {
		t.Fatalf("contains argument not wrapped in wildcards: %#v", args[1])
	}
}

func TestBuildSelect_OrGroup(t *testing.T) {
	country := domain.NewPredicate()
	country.Fields["location"] = domain.Clause{Op: domain.OpPathEquals, Path: []string{"country"}, Value: "US"}

	full := domain.NewPredicate()
	full.Fields["location"] = domain.Clause{Op: domain.OpPathEquals, Value: map[string]any{"city": "Boston"}}

	pred := domain.NewPredicate()
	pred.Or = []domain.Predicate{country, full}

	sql, args, err := BuildSelect("people", pred, nil, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(sql, "((fields->'location' #>> $2 = $3) OR (fields->'location' @> $4::jsonb))") {
		t.Fatalf("wrong OR group rendering: %s", sql)
	}
	if !reflect.DeepEqual(args[1], []string{"country"}) || args[2] != "US" {
		t.Fatalf("wrong path args: %#v", args)
	}
	if args[3] != `{"city":"Boston"}` {
		t.Fatalf("wrong containment payload: %#v", args[3])
	}
}

func TestBuildCount(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["status"] = domain.Clause{Op: domain.OpEquals, Value: "open"}

	sql, args, err := BuildCount("tickets", pred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "SELECT COUNT(*) FROM records WHERE collection = $1 AND fields->>'status' = $2" {
		t.Fatalf("wrong SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"tickets", "open"}) {
		t.Fatalf("wrong args: %#v", args)
	}
}

func TestBuildSelect_DeterministicForSamePredicate(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["b"] = domain.Clause{Op: domain.OpEquals, Value: 2}
	pred.Fields["a"] = domain.Clause{Op: domain.OpEquals, Value: 1}
	pred.Fields["c"] = domain.Clause{Op: domain.OpEquals, Value: 3}

	first, _, err := BuildSelect("x", pred, nil, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := BuildSelect("x", pred, nil, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("SQL generation must be deterministic:\n%s\n%s", first, second)
	}
}

func TestBuildSelect_UnsupportedOperator(t *testing.T) {
	pred := domain.NewPredicate()
	pred.Fields["x"] = domain.Clause{Op: domain.Operator("bogus")}

	if _, _, err := BuildSelect("x", pred, nil, 1, 0); err == nil {
		t.Fatalf("expected error for unsupported operator")
	}
}

func TestQuoteLiteral_EscapesQuotes(t *testing.T) {
	if got := quoteLiteral("o'brien"); got != "'o''brien'" {
		t.Fatalf("wrong quoting: %s", got)
	}
}
