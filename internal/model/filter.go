package model

// Op identifies a filter operator.
type Op int

const (
	OpEq Op = iota
	OpNeq
	OpIn
	OpLike
	OpIsNull
	OpIsNotNull
	// Operators below apply only to list-encoded columns.
	OpContains
	OpContainsAny
	OpContainsAll
	OpArrayIsEmpty
	OpArrayIsNotEmpty
)

// Condition is a single predicate against one field. Value carries the
// operand for single-value operators, Values for multi-value operators.
type Condition struct {
	Op     Op
	Value  any
	Values []any
}

// Filter maps field names to conditions. Composing a filter never adds
// tenant scoping; that is injected exactly once by the query builder.
//
// A field name may address a path inside a document column using dot
// notation, e.g. "address.city".
type Filter map[string]Condition

// Eq matches rows whose field equals v. Eq(nil) matches NULL.
func Eq(v any) Condition {
	if v == nil {
		return Condition{Op: OpIsNull}
	}
	return Condition{Op: OpEq, Value: v}
}

// Neq matches rows whose field does not equal v.
func Neq(v any) Condition {
	if v == nil {
		return Condition{Op: OpIsNotNull}
	}
	return Condition{Op: OpNeq, Value: v}
}

// In matches rows whose field equals any of vs.
func In(vs ...any) Condition {
	return Condition{Op: OpIn, Values: vs}
}

// Like matches rows whose field matches the given pattern,
// case-insensitively. The pattern uses % and _ wildcards; literal
// wildcard characters in user input must be escaped by the caller via
// sqlfrag.EscapeLike.
func Like(pattern string) Condition {
	return Condition{Op: OpLike, Value: pattern}
}

// IsNull matches rows whose field is NULL.
func IsNull() Condition {
	return Condition{Op: OpIsNull}
}

// IsNotNull matches rows whose field is not NULL.
func IsNotNull() Condition {
	return Condition{Op: OpIsNotNull}
}

// Contains matches list columns that contain v.
func Contains(v any) Condition {
	return Condition{Op: OpContains, Value: v}
}

// ContainsAny matches list columns containing at least one of vs.
func ContainsAny(vs ...any) Condition {
	return Condition{Op: OpContainsAny, Values: vs}
}

// ContainsAll matches list columns containing every one of vs.
func ContainsAll(vs ...any) Condition {
	return Condition{Op: OpContainsAll, Values: vs}
}

// ArrayIsEmpty matches list columns holding an empty list (or NULL).
func ArrayIsEmpty() Condition {
	return Condition{Op: OpArrayIsEmpty}
}

// ArrayIsNotEmpty matches list columns holding a non-empty list.
func ArrayIsNotEmpty() Condition {
	return Condition{Op: OpArrayIsNotEmpty}
}
