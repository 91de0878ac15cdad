package testutil

import (
	"context"
	"testing"

	"github.com/user/crmcore/internal/engine"
	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
)

// SeedCompany creates a company and returns its id.
func SeedCompany(t *testing.T, eng *engine.Engine, sc scope.Scope, fields map[string]any) string {
	t.Helper()
	return seed(t, eng, sc, "company", fields)
}

// SeedPerson creates a person and returns its id.
func SeedPerson(t *testing.T, eng *engine.Engine, sc scope.Scope, fields map[string]any) string {
	t.Helper()
	return seed(t, eng, sc, "person", fields)
}

// SeedTask creates a task and returns its id.
func SeedTask(t *testing.T, eng *engine.Engine, sc scope.Scope, fields map[string]any) string {
	t.Helper()
	return seed(t, eng, sc, "task", fields)
}

func seed(t *testing.T, eng *engine.Engine, sc scope.Scope, entity string, fields map[string]any) string {
	t.Helper()
	row, _, err := eng.CreateOne(context.Background(), sc, entity, fields)
	if err != nil {
		t.Fatalf("failed to seed %s: %v", entity, err)
	}
	return row.ID
}

// CollectIDs returns the ids of a connection's rows in order.
func CollectIDs(conn *model.Connection) []string {
	ids := make([]string, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		ids = append(ids, e.Row.ID)
	}
	return ids
}
