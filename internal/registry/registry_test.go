package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/transform"
)

func TestDefault(t *testing.T) {
	r := Default()

	names := make([]string, 0, 5)
	for _, e := range r.Entities() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"company", "person", "opportunity", "task", "note"}, names)

	company, err := r.Entity("company")
	require.NoError(t, err)
	assert.Equal(t, "company", company.Table)
	assert.Equal(t, "name", company.LabelField)

	addr, ok := company.Column("address")
	require.True(t, ok)
	assert.Equal(t, transform.KindDocument, addr.Kind)

	tags, ok := company.Column("tags")
	require.True(t, ok)
	assert.Equal(t, transform.KindList, tags.Kind)
}

func TestEntity_Unknown(t *testing.T) {
	_, err := Default().Entity("invoice")
	assert.ErrorIs(t, err, model.ErrUnknownEntity)
}

func TestColumn_Unknown(t *testing.T) {
	company, err := Default().Entity("company")
	require.NoError(t, err)
	_, ok := company.Column("revenue")
	assert.False(t, ok)
}

func TestColumnNames_DeclarationOrder(t *testing.T) {
	task, err := Default().Entity("task")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "body", "status", "due_at", "assignee_id"}, task.ColumnNames())
}

func TestNew_DuplicateEntity(t *testing.T) {
	_, err := New(
		&Entity{Name: "widget", Table: "widget"},
		&Entity{Name: "widget", Table: "widget"},
	)
	assert.Error(t, err)
}

func TestNew_SearchableMustBeColumn(t *testing.T) {
	_, err := New(&Entity{
		Name:       "widget",
		Table:      "widget",
		Columns:    []Column{{Name: "name", Kind: transform.KindText}},
		Searchable: []string{"label"},
	})
	assert.Error(t, err)
}
