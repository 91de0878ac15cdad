// Package querybuilder constructs the parameterized statements the
// execution adapter runs. Every builder takes a scope.Scope and injects
// the tenant predicate (and soft-delete exclusion) as the leading WHERE
// conditions, so later filter composition cannot remove them.
//
// Statement has unexported fields and only this package creates one;
// that is what makes an unscoped statement structurally impossible
// rather than a runtime check.
package querybuilder

import "errors"

// Statement is a parameterized SQL statement ready for execution.
type Statement struct {
	sql  string
	args []any
}

// SQL returns the statement text with ? placeholders.
func (s Statement) SQL() string {
	return s.sql
}

// Args returns the bound parameter values in placeholder order.
func (s Statement) Args() []any {
	return s.args
}

var errInvalidScope = errors.New("statement requires a scope built from a tenant id")
