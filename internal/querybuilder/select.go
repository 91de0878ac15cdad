package querybuilder

import (
	"fmt"
	"strings"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
)

// Order is one resolved ORDER BY term.
type Order struct {
	Column string
	Desc   bool
	Nulls  model.NullPlacement
}

// nullsFirst reports where NULL sort keys land once the engine default
// is resolved: the storage engine sorts NULL before every value, so an
// ascending scan meets NULLs first and a descending scan meets them last.
func (o Order) nullsFirst() bool {
	switch o.Nulls {
	case model.NullsFirst:
		return true
	case model.NullsLast:
		return false
	default:
		return !o.Desc
	}
}

func (o Order) sql() string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	term := o.Column + " " + dir
	switch o.Nulls {
	case model.NullsFirst:
		term += " NULLS FIRST"
	case model.NullsLast:
		term += " NULLS LAST"
	}
	return term
}

// SelectSpec describes a scoped read. Conds are ANDed; Any, when
// non-empty, contributes one ORed group (keyword search uses it to scan
// several columns at once).
type SelectSpec struct {
	Table          string
	Columns        []string
	Conds          []Cond
	Any            Or
	Order          []Order
	Keyset         *Keyset
	Limit          int
	IncludeDeleted bool
}

// BuildSelect renders a scoped SELECT. The tenant predicate is always
// the first WHERE condition and soft-deleted rows are excluded unless
// the spec explicitly opted in.
func BuildSelect(sc scope.Scope, spec SelectSpec) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}

	cols := "*"
	if len(spec.Columns) > 0 {
		cols = strings.Join(spec.Columns, ", ")
	}

	where, args, err := buildWhere(sc, spec)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s", cols, spec.Table, where)
	if len(spec.Order) > 0 {
		terms := make([]string, len(spec.Order))
		for i, o := range spec.Order {
			terms[i] = o.sql()
		}
		sql += " ORDER BY " + strings.Join(terms, ", ")
	}
	if spec.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", spec.Limit)
	}

	return Statement{sql: sql, args: args}, nil
}

// BuildCount renders a scoped SELECT COUNT(*) over the same predicate
// set, ignoring ordering and pagination.
func BuildCount(sc scope.Scope, spec SelectSpec) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}
	counted := spec
	counted.Keyset = nil
	where, args, err := buildWhere(sc, counted)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("SELECT COUNT(*) AS n FROM %s WHERE %s", spec.Table, where)
	return Statement{sql: sql, args: args}, nil
}

// buildWhere assembles the WHERE clause: tenant scope, soft-delete
// exclusion, caller conditions, OR group, keyset resume predicate.
func buildWhere(sc scope.Scope, spec SelectSpec) (string, []any, error) {
	parts := []string{model.ColTenantID + " = ?"}
	args := []any{sc.TenantID()}

	if !spec.IncludeDeleted {
		parts = append(parts, model.ColDeletedAt+" IS NULL")
	}

	for _, c := range spec.Conds {
		frag, condArgs, err := c.compile()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, frag)
		args = append(args, condArgs...)
	}

	if len(spec.Any) > 0 {
		frag, orArgs, err := spec.Any.compile()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, frag)
		args = append(args, orArgs...)
	}

	if spec.Keyset != nil {
		frag, ksArgs := spec.Keyset.predicate()
		parts = append(parts, frag)
		args = append(args, ksArgs...)
	}

	return strings.Join(parts, " AND "), args, nil
}
