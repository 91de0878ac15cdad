package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/transform"
)

// Bootstrap creates the fixed entity tables and their indexes. It is
// idempotent and safe to run on every startup.
func (a *Adapter) Bootstrap(ctx context.Context, reg *registry.Registry) error {
	for _, entity := range reg.Entities() {
		if err := a.createEntityTable(ctx, entity); err != nil {
			return err
		}
	}

	// Uniqueness the previous engine enforced with per-schema
	// constraints. Partial: soft-deleted rows release their claim.
	uniques := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_person_tenant_email
			ON person(tenant_id, email)
			WHERE email IS NOT NULL AND deleted_at IS NULL`,
	}
	for _, ddl := range uniques {
		if _, err := a.db.ExecContext(ctx, ddl); err != nil {
			return classify("failed to create unique index", err)
		}
	}
	return nil
}

func (a *Adapter) createEntityTable(ctx context.Context, entity *registry.Entity) error {
	cols := []string{
		"id TEXT PRIMARY KEY",
		"tenant_id TEXT NOT NULL",
		"created_at TEXT NOT NULL",
		"updated_at TEXT NOT NULL",
		"deleted_at TEXT",
	}
	for _, c := range entity.Columns {
		cols = append(cols, c.Name+" "+columnAffinity(c.Kind))
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		entity.Table, strings.Join(cols, ",\n\t"))
	if _, err := a.db.ExecContext(ctx, ddl); err != nil {
		return classify(fmt.Sprintf("failed to create table %s", entity.Table), err)
	}

	indexes := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_tenant_deleted ON %s(tenant_id, deleted_at)",
			entity.Table, entity.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_tenant_created ON %s(tenant_id, created_at)",
			entity.Table, entity.Table),
	}
	for _, idx := range indexes {
		if _, err := a.db.ExecContext(ctx, idx); err != nil {
			return classify(fmt.Sprintf("failed to create index on %s", entity.Table), err)
		}
	}
	return nil
}

// columnAffinity maps a logical column kind to the engine's primitive
// storage class.
func columnAffinity(k transform.Kind) string {
	switch k {
	case transform.KindInteger, transform.KindBoolean:
		return "INTEGER"
	case transform.KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}
