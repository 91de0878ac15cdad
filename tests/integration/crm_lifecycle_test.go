package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/crmcore/internal/engine"
	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/tests/testutil"
)

// TestCompanyLifecycle exercises the complete lifecycle of a record
// carrying rich field types:
// create -> read back -> filter on a document path -> update ->
// soft-delete -> hard-delete
func TestCompanyLifecycle(t *testing.T) {
	eng, _ := testutil.NewEngine(t)
	sc := testutil.Scope(t, "tenant-a")
	ctx := context.Background()

	// ===== PHASE 1: Create =====
	t.Log("Phase 1: Creating company with document, list and boolean fields")

	created, _, err := eng.CreateOne(ctx, sc, "company", map[string]any{
		"name":        "Acme",
		"domain_name": "acme.test",
		"address":     map[string]any{"city": "Paris", "zip": "75002"},
		"employees":   int64(120),
		"icp":         true,
		"tags":        []any{"vip", "eu"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// ===== PHASE 2: Read back =====
	t.Log("Phase 2: Reading the record back")

	got, err := eng.FindByID(ctx, sc, "company", created.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Paris", "zip": "75002"}, got.Fields["address"])
	assert.Equal(t, []any{"vip", "eu"}, got.Fields["tags"])
	assert.Equal(t, true, got.Fields["icp"])
	assert.Equal(t, int64(120), got.Fields["employees"])

	// ===== PHASE 3: Filter on a path inside the document =====
	t.Log("Phase 3: Filtering on address.city")

	conn, err := eng.FindMany(ctx, sc, "company", engine.Query{
		Filter: model.Filter{"address.city": model.Eq("Paris")},
	})
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, created.ID, conn.Edges[0].Row.ID)

	// ===== PHASE 4: Update =====
	t.Log("Phase 4: Updating the document field")

	updated, _, err := eng.UpdateOne(ctx, sc, "company", created.ID, map[string]any{
		"address": map[string]any{"city": "Lyon"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Lyon"}, updated.Fields["address"])
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	conn, err = eng.FindMany(ctx, sc, "company", engine.Query{
		Filter: model.Filter{"address.city": model.Eq("Paris")},
	})
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)

	// ===== PHASE 5: Soft delete =====
	t.Log("Phase 5: Soft-deleting the record")

	changed, _, err := eng.SoftDeleteOne(ctx, sc, "company", created.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = eng.FindByID(ctx, sc, "company", created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	tomb, err := eng.FindOneIncludingDeleted(ctx, sc, "company", model.Filter{model.ColID: model.Eq(created.ID)})
	require.NoError(t, err)
	assert.True(t, tomb.IsDeleted())

	// ===== PHASE 6: Hard delete =====
	t.Log("Phase 6: Hard-deleting the tombstone")

	removed, _, err := eng.HardDeleteOne(ctx, sc, "company", created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = eng.FindOneIncludingDeleted(ctx, sc, "company", model.Filter{model.ColID: model.Eq(created.ID)})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestTaskPaginationWorkflow walks a task list page by page in both
// directions through opaque cursors.
func TestTaskPaginationWorkflow(t *testing.T) {
	eng, _ := testutil.NewEngine(t)
	sc := testutil.Scope(t, "tenant-a")
	ctx := context.Background()

	t.Log("Phase 1: Seeding tasks with distinct creation times")
	for i := 1; i <= 3; i++ {
		testutil.SeedTask(t, eng, sc, map[string]any{
			"title":  fmt.Sprintf("task-%d", i),
			"status": "TODO",
		})
	}

	newestFirst := []model.OrderBy{{Field: "created_at", Direction: model.Desc}}
	titleAt := func(conn *model.Connection, i int) string {
		title, _ := conn.Edges[i].Row.Fields["title"].(string)
		return title
	}

	t.Log("Phase 2: First page of two")
	page1, err := eng.FindMany(ctx, sc, "task", engine.Query{
		Order:     newestFirst,
		Page:      model.Page{First: 2},
		WithTotal: true,
	})
	require.NoError(t, err)
	require.Len(t, page1.Edges, 2)
	assert.Equal(t, "task-3", titleAt(page1, 0))
	assert.Equal(t, "task-2", titleAt(page1, 1))
	assert.True(t, page1.PageInfo.HasNextPage)
	assert.False(t, page1.PageInfo.HasPreviousPage)
	assert.Equal(t, int64(3), page1.TotalCount)

	t.Log("Phase 3: Resuming from the cursor")
	page2, err := eng.FindMany(ctx, sc, "task", engine.Query{
		Order: newestFirst,
		Page:  model.Page{First: 2, After: page1.PageInfo.EndCursor},
	})
	require.NoError(t, err)
	require.Len(t, page2.Edges, 1)
	assert.Equal(t, "task-1", titleAt(page2, 0))
	assert.False(t, page2.PageInfo.HasNextPage)
	assert.True(t, page2.PageInfo.HasPreviousPage)

	t.Log("Phase 4: Paging backward reconstructs the first page")
	back, err := eng.FindMany(ctx, sc, "task", engine.Query{
		Order: newestFirst,
		Page:  model.Page{Last: 2, Before: page2.PageInfo.StartCursor},
	})
	require.NoError(t, err)
	require.Len(t, back.Edges, 2)
	assert.Equal(t, "task-3", titleAt(back, 0))
	assert.Equal(t, "task-2", titleAt(back, 1))
	assert.False(t, back.PageInfo.HasPreviousPage)
}

// TestKeywordSearchWorkflow covers cross-entity search over live data
// with tenant isolation and deletions applied between queries.
func TestKeywordSearchWorkflow(t *testing.T) {
	eng, _ := testutil.NewEngine(t)
	scA := testutil.Scope(t, "tenant-a")
	scB := testutil.Scope(t, "tenant-b")
	ctx := context.Background()

	t.Log("Phase 1: Seeding records across entities and tenants")
	companyID := testutil.SeedCompany(t, eng, scA, map[string]any{
		"name": "Acme", "domain_name": "acme.test",
	})
	personID := testutil.SeedPerson(t, eng, scA, map[string]any{
		"first_name": "Ann", "last_name": "Acker", "email": "ann@acme.test",
	})
	testutil.SeedCompany(t, eng, scA, map[string]any{"name": "Globex"})
	testutil.SeedCompany(t, eng, scB, map[string]any{"name": "Acme Shadow"})

	t.Log("Phase 2: Searching within tenant-a")
	hits, err := eng.Search(ctx, scA, "acme", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, companyID, hits[0].ID)
	assert.Equal(t, personID, hits[1].ID)
	for _, h := range hits {
		assert.Equal(t, 1.0, h.Score)
		assert.Equal(t, "tenant-a", h.Row.TenantID)
	}

	t.Log("Phase 3: Deleting a hit removes it from search")
	_, _, err = eng.SoftDeleteOne(ctx, scA, "company", companyID)
	require.NoError(t, err)

	hits, err = eng.Search(ctx, scA, "acme", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, personID, hits[0].ID)
}
