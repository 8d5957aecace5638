package domain

// ConditionMap maps field names to raw filter values supplied by the
// caller. A value is one of: a scalar, a [lower, upper] pair, a list
// of values, or a list of nested objects for address-style matching.
type ConditionMap map[string]any

// FieldSet is a membership set of field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from the given names.
func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is a member of the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// CategorySets groups the caller-supplied field categories that drive
// condition translation. The sets are supplied per request and read
// only. A field listed in more than one set is resolved by the
// classifier's fixed priority order, not rejected.
type CategorySets struct {
	Range   FieldSet // [lower, upper] pairs → inclusive bounds
	AnyOf   FieldSet // multi-valued columns, match any of the values
	AllOf   FieldSet // multi-valued columns, match all of the values
	Address FieldSet // nested objects matched by JSON path
	Search  FieldSet // substring match on scalar values
}
