// Package scope enforces tenant isolation. The previous engine gave
// every tenant its own schema; here every row of every table carries a
// tenant_id column instead, and this package is the single point that
// guarantees the column is always constrained.
//
// A Scope can only be built from a non-empty tenant id, and the query
// builder refuses to construct statements without one, so no code path
// can reach the execution adapter with an unscoped filter. That makes a
// cross-tenant leak a compile-shape problem rather than a runtime check.
package scope

import "github.com/user/crmcore/internal/model"

// Scope carries the tenant identity every statement is constrained to.
// The zero value is unusable; builders reject it.
type Scope struct {
	tenantID string
}

// New creates a scope for a tenant. The tenant id must be non-empty.
func New(tenantID string) (Scope, error) {
	if tenantID == "" {
		return Scope{}, model.ErrEmptyTenant
	}
	return Scope{tenantID: tenantID}, nil
}

// MustNew is New for callers with a statically known tenant, e.g. tests.
func MustNew(tenantID string) Scope {
	s, err := New(tenantID)
	if err != nil {
		panic(err)
	}
	return s
}

// TenantID returns the tenant this scope is bound to.
func (s Scope) TenantID() string {
	return s.tenantID
}

// Valid reports whether the scope was built through New.
func (s Scope) Valid() bool {
	return s.tenantID != ""
}

// ApplyToRow forces the row's tenant id to the scope's tenant,
// overwriting any caller-supplied value.
func (s Scope) ApplyToRow(row *model.Row) {
	row.TenantID = s.tenantID
}
