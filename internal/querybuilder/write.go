package querybuilder

import (
	"fmt"
	"strings"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
	"github.com/user/crmcore/internal/sqlfrag"
)

// ColumnValue is one column assignment, ordered so generated SQL is
// deterministic.
type ColumnValue struct {
	Column string
	Value  any
}

// BuildInsert renders a scoped INSERT. The tenant column is always
// written from the scope; a caller-supplied tenant_id value is dropped
// and overwritten.
func BuildInsert(sc scope.Scope, table string, values []ColumnValue) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}
	if len(values) == 0 {
		return Statement{}, model.ErrNoColumns
	}

	cols := []string{model.ColTenantID}
	args := []any{sc.TenantID()}
	for _, cv := range values {
		if cv.Column == model.ColTenantID {
			continue
		}
		cols = append(cols, cv.Column)
		args = append(args, cv.Value)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), sqlfrag.Placeholders(len(cols)))
	return Statement{sql: sql, args: args}, nil
}

// BuildUpdate renders a scoped UPDATE of a single live row. The id,
// tenant and creation timestamp are immutable; sets naming them fail.
func BuildUpdate(sc scope.Scope, table, id string, sets []ColumnValue) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}
	if len(sets) == 0 {
		return Statement{}, model.ErrNoColumns
	}

	assigns := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets)+2)
	for _, cv := range sets {
		switch cv.Column {
		case model.ColID, model.ColTenantID, model.ColCreatedAt:
			return Statement{}, fmt.Errorf("%w: %s", model.ErrImmutableField, cv.Column)
		}
		assigns = append(assigns, cv.Column+" = ?")
		args = append(args, cv.Value)
	}
	args = append(args, sc.TenantID(), id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? AND %s = ? AND %s IS NULL",
		table, strings.Join(assigns, ", "), model.ColTenantID, model.ColID, model.ColDeletedAt)
	return Statement{sql: sql, args: args}, nil
}

// BuildSoftDelete marks a live row deleted. The deleted_at IS NULL
// predicate makes repeated deletes a zero-row no-op instead of an
// update that keeps advancing timestamps.
func BuildSoftDelete(sc scope.Scope, table, id string, now any) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}
	sql := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ? AND %s = ? AND %s IS NULL",
		table, model.ColDeletedAt, model.ColUpdatedAt, model.ColTenantID, model.ColID, model.ColDeletedAt)
	return Statement{sql: sql, args: []any{now, now, sc.TenantID(), id}}, nil
}

// BuildHardDelete renders the only operation that physically removes a
// row, scoped by tenant and id regardless of soft-delete state.
func BuildHardDelete(sc scope.Scope, table, id string) (Statement, error) {
	if !sc.Valid() {
		return Statement{}, errInvalidScope
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?",
		table, model.ColTenantID, model.ColID)
	return Statement{sql: sql, args: []any{sc.TenantID(), id}}, nil
}
