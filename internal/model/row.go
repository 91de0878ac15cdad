package model

import "time"

// Operation kinds reported to the caller after a successful mutation.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpHardDelete = "hard_delete"
)

// System column names shared by every entity table.
const (
	ColID        = "id"
	ColTenantID  = "tenant_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
	ColDeletedAt = "deleted_at"
)

// Row represents a single entity record with its system fields decoded
// and entity-specific fields held as rich in-memory values.
type Row struct {
	ID        string
	TenantID  string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	Fields    map[string]any
}

// IsDeleted returns true if the row has been soft-deleted.
func (r *Row) IsDeleted() bool {
	return r.DeletedAt != nil
}

// Field returns the value of an entity-specific field.
func (r *Row) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// MutationInfo describes a completed mutation. The calling layer uses it
// to notify the real-time broadcast component; this layer never calls
// that component directly.
type MutationInfo struct {
	Entity   string
	ID       string
	TenantID string
	Op       string
}
