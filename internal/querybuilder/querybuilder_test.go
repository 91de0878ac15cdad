package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
)

var testScope = scope.MustNew("tenant-a")

func TestBuildSelect_Defaults(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{Table: "company"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM company WHERE tenant_id = ? AND deleted_at IS NULL", stmt.SQL())
	assert.Equal(t, []any{"tenant-a"}, stmt.Args())
}

func TestBuildSelect_TenantPredicateFirst(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{
		Table: "company",
		Conds: []Cond{{Column: "name", Op: model.OpEq, Value: "Acme"}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM company WHERE tenant_id = ? AND deleted_at IS NULL AND name = ?",
		stmt.SQL())
	assert.Equal(t, []any{"tenant-a", "Acme"}, stmt.Args())
}

func TestBuildSelect_IncludeDeleted(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{Table: "company", IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM company WHERE tenant_id = ?", stmt.SQL())
}

func TestBuildSelect_ColumnsOrderLimit(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{
		Table:   "task",
		Columns: []string{"id", "title"},
		Order: []Order{
			{Column: "due_at", Desc: true},
			{Column: "id"},
		},
		Limit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title FROM task WHERE tenant_id = ? AND deleted_at IS NULL ORDER BY due_at DESC, id ASC LIMIT 3",
		stmt.SQL())
}

func TestBuildSelect_ExplicitNullPlacement(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{
		Table: "task",
		Order: []Order{{Column: "due_at", Nulls: model.NullsLast}},
	})
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL(), "ORDER BY due_at ASC NULLS LAST")
}

func TestBuildSelect_DocumentPathCondition(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{
		Table: "company",
		Conds: []Cond{{Column: "address", Path: "city", Op: model.OpEq, Value: "Paris"}},
	})
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL(), "json_extract(address, '$.city') = ?")
	assert.Equal(t, []any{"tenant-a", "Paris"}, stmt.Args())
}

func TestBuildSelect_OrGroup(t *testing.T) {
	stmt, err := BuildSelect(testScope, SelectSpec{
		Table: "person",
		Any: Or{
			{Column: "first_name", Op: model.OpLike, Value: "%ann%"},
			{Column: "email", Op: model.OpLike, Value: "%ann%"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM person WHERE tenant_id = ? AND deleted_at IS NULL AND (LOWER(first_name) LIKE LOWER(?) ESCAPE '\' OR LOWER(email) LIKE LOWER(?) ESCAPE '\')`,
		stmt.SQL())
	assert.Equal(t, []any{"tenant-a", "%ann%", "%ann%"}, stmt.Args())
}

func TestBuildSelect_InvalidScope(t *testing.T) {
	var sc scope.Scope
	_, err := BuildSelect(sc, SelectSpec{Table: "company"})
	assert.Error(t, err)
}

func TestBuildCount_DropsKeysetAndOrder(t *testing.T) {
	stmt, err := BuildCount(testScope, SelectSpec{
		Table: "company",
		Order: []Order{{Column: "name"}},
		Keyset: &Keyset{Terms: []KeysetTerm{
			{Order: Order{Column: "name"}, Value: "Acme"},
		}},
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS n FROM company WHERE tenant_id = ? AND deleted_at IS NULL", stmt.SQL())
	assert.Equal(t, []any{"tenant-a"}, stmt.Args())
}

func TestCond_EmptySets(t *testing.T) {
	frag, args, err := Cond{Column: "stage", Op: model.OpIn}.compile()
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", frag)
	assert.Empty(t, args)

	frag, _, err = Cond{Column: "tags", Op: model.OpContainsAll}.compile()
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", frag)

	frag, _, err = Cond{Column: "tags", Op: model.OpContainsAny}.compile()
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", frag)
}

func TestCond_ArrayPredicateRejectsPath(t *testing.T) {
	for _, op := range []model.Op{model.OpContains, model.OpContainsAny, model.OpContainsAll} {
		_, _, err := Cond{Column: "address", Path: "tags", Op: op, Value: "x", Values: []any{"x"}}.compile()
		assert.Error(t, err)
	}
}

func TestKeyset_SingleTerm(t *testing.T) {
	ks := &Keyset{Terms: []KeysetTerm{
		{Order: Order{Column: "id"}, Value: "row-5"},
	}}
	frag, args := ks.predicate()
	assert.Equal(t, "(id > ?)", frag)
	assert.Equal(t, []any{"row-5"}, args)
}

func TestKeyset_TwoTerms(t *testing.T) {
	ks := &Keyset{Terms: []KeysetTerm{
		{Order: Order{Column: "created_at", Desc: true}, Value: "2026-03-01T12:00:02.000Z"},
		{Order: Order{Column: "id"}, Value: "row-5"},
	}}
	frag, args := ks.predicate()
	// Descending scan with default placement meets NULLs last, so rows
	// after the captured value include the NULL block.
	assert.Equal(t,
		"((created_at < ? OR created_at IS NULL) OR (created_at = ? AND id > ?))",
		frag)
	assert.Equal(t, []any{"2026-03-01T12:00:02.000Z", "2026-03-01T12:00:02.000Z", "row-5"}, args)
}

func TestKeyset_NullValueNullsFirst(t *testing.T) {
	ks := &Keyset{Terms: []KeysetTerm{
		{Order: Order{Column: "due_at"}, Value: nil},
		{Order: Order{Column: "id"}, Value: "row-2"},
	}}
	frag, args := ks.predicate()
	// Ascending default puts NULLs first: once past the NULL block every
	// non-NULL row qualifies, and within the block id advances the scan.
	assert.Equal(t, "(due_at IS NOT NULL OR (due_at IS NULL AND id > ?))", frag)
	assert.Equal(t, []any{"row-2"}, args)
}

func TestKeyset_NullValueNullsLast(t *testing.T) {
	ks := &Keyset{Terms: []KeysetTerm{
		{Order: Order{Column: "due_at", Nulls: model.NullsLast}, Value: nil},
		{Order: Order{Column: "id"}, Value: "row-2"},
	}}
	frag, args := ks.predicate()
	// Trailing NULL block: no value sorts after it, only the tiebreak moves.
	assert.Equal(t, "(1 = 0 OR (due_at IS NULL AND id > ?))", frag)
	assert.Equal(t, []any{"row-2"}, args)
}

func TestBuildInsert_ForcesTenant(t *testing.T) {
	stmt, err := BuildInsert(testScope, "company", []ColumnValue{
		{Column: "id", Value: "c1"},
		{Column: "tenant_id", Value: "spoofed"},
		{Column: "name", Value: "Acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO company (tenant_id, id, name) VALUES (?, ?, ?)", stmt.SQL())
	assert.Equal(t, []any{"tenant-a", "c1", "Acme"}, stmt.Args())
}

func TestBuildInsert_NoColumns(t *testing.T) {
	_, err := BuildInsert(testScope, "company", nil)
	assert.ErrorIs(t, err, model.ErrNoColumns)
}

func TestBuildUpdate(t *testing.T) {
	stmt, err := BuildUpdate(testScope, "company", "c1", []ColumnValue{
		{Column: "name", Value: "Acme Corp"},
		{Column: "updated_at", Value: "2026-03-01T12:00:05.000Z"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE company SET name = ?, updated_at = ? WHERE tenant_id = ? AND id = ? AND deleted_at IS NULL",
		stmt.SQL())
	assert.Equal(t, []any{"Acme Corp", "2026-03-01T12:00:05.000Z", "tenant-a", "c1"}, stmt.Args())
}

func TestBuildUpdate_ImmutableColumns(t *testing.T) {
	for _, col := range []string{model.ColID, model.ColTenantID, model.ColCreatedAt} {
		_, err := BuildUpdate(testScope, "company", "c1", []ColumnValue{{Column: col, Value: "x"}})
		assert.ErrorIs(t, err, model.ErrImmutableField, col)
	}
}

func TestBuildSoftDelete(t *testing.T) {
	stmt, err := BuildSoftDelete(testScope, "company", "c1", "2026-03-01T12:00:05.000Z")
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE company SET deleted_at = ?, updated_at = ? WHERE tenant_id = ? AND id = ? AND deleted_at IS NULL",
		stmt.SQL())
	assert.Equal(t, []any{"2026-03-01T12:00:05.000Z", "2026-03-01T12:00:05.000Z", "tenant-a", "c1"}, stmt.Args())
}

func TestBuildHardDelete(t *testing.T) {
	stmt, err := BuildHardDelete(testScope, "company", "c1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM company WHERE tenant_id = ? AND id = ?", stmt.SQL())
	assert.Equal(t, []any{"tenant-a", "c1"}, stmt.Args())
}

func TestWriteBuilders_InvalidScope(t *testing.T) {
	var sc scope.Scope
	_, err := BuildInsert(sc, "company", []ColumnValue{{Column: "id", Value: "c1"}})
	assert.Error(t, err)
	_, err = BuildUpdate(sc, "company", "c1", []ColumnValue{{Column: "name", Value: "x"}})
	assert.Error(t, err)
	_, err = BuildSoftDelete(sc, "company", "c1", "now")
	assert.Error(t, err)
	_, err = BuildHardDelete(sc, "company", "c1")
	assert.Error(t, err)
}
