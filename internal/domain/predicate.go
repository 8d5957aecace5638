package domain

// Operator identifies how a clause matches a field.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpIn         Operator = "in"
	OpHasSome    Operator = "hasSome"
	OpHasEvery   Operator = "hasEvery"
	OpRange      Operator = "range"
	OpContains   Operator = "contains"
	OpPathEquals Operator = "pathEquals"
)

// Clause applies a single operator to one field. Which members are
// populated depends on Op: Value for equals/contains, Values for
// in/hasSome/hasEvery, Lower and Upper for range, Path and Value for
// pathEquals. An empty Path on a pathEquals clause matches Value
// against the whole nested object.
type Clause struct {
	Op     Operator
	Value  any
	Values []any
	Lower  any
	Upper  any
	Path   []string
}

// Predicate is the structured filter handed to the record store.
// Entries in Fields are combined with AND; sub-predicates in Or are
// combined with OR and then ANDed with Fields. The Or group is only
// produced by address-field translation.
type Predicate struct {
	Fields map[string]Clause
	Or     []Predicate
}

// NewPredicate returns an empty predicate ready for clause insertion.
func NewPredicate() Predicate {
	return Predicate{Fields: make(map[string]Clause)}
}

// IsEmpty reports whether the predicate constrains nothing.
func (p Predicate) IsEmpty() bool {
	return len(p.Fields) == 0 && len(p.Or) == 0
}
