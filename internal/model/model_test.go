package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEq_NilBecomesIsNull(t *testing.T) {
	assert.Equal(t, OpIsNull, Eq(nil).Op)
	assert.Equal(t, OpEq, Eq("x").Op)
}

func TestNeq_NilBecomesIsNotNull(t *testing.T) {
	assert.Equal(t, OpIsNotNull, Neq(nil).Op)
	assert.Equal(t, OpNeq, Neq("x").Op)
}

func TestPage(t *testing.T) {
	assert.False(t, Page{First: 10}.Backward())
	assert.True(t, Page{Last: 10}.Backward())
	assert.True(t, Page{Before: "cur"}.Backward())

	assert.Equal(t, 10, Page{First: 10}.Limit(50))
	assert.Equal(t, 10, Page{Last: 10}.Limit(50))
	assert.Equal(t, 50, Page{}.Limit(50))
	assert.Equal(t, 50, Page{Before: "cur"}.Limit(50))
}

func TestRow_IsDeleted(t *testing.T) {
	var r Row
	assert.False(t, r.IsDeleted())
	now := time.Now()
	r.DeletedAt = &now
	assert.True(t, r.IsDeleted())
}
