package storage

import (
	"context"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
)

// BatchBuilder accumulates statements and commits them as one atomic
// batch. It gives call sites a transaction-like API without pretending
// partial rollback is possible: Commit is all-or-nothing, and a builder
// that is never committed is simply discarded.
type BatchBuilder struct {
	adapter *Adapter
	stmts   []querybuilder.Statement
}

// NewBatch starts an empty batch.
func (a *Adapter) NewBatch() *BatchBuilder {
	return &BatchBuilder{adapter: a}
}

// Add appends a statement to the batch.
func (b *BatchBuilder) Add(stmt querybuilder.Statement) *BatchBuilder {
	b.stmts = append(b.stmts, stmt)
	return b
}

// Len returns the number of accumulated statements.
func (b *BatchBuilder) Len() int {
	return len(b.stmts)
}

// Commit applies every accumulated statement as one atomic unit and
// clears the builder. Committing an empty batch is an error.
func (b *BatchBuilder) Commit(ctx context.Context) ([]Result, error) {
	if len(b.stmts) == 0 {
		return nil, model.ErrEmptyBatch
	}
	results, err := b.adapter.Batch(ctx, b.stmts)
	b.stmts = nil
	return results, err
}
