package engine

import (
	"context"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/scope"
)

// FindMany executes a paginated read over an entity. Soft-deleted rows
// are excluded.
func (e *Engine) FindMany(ctx context.Context, sc scope.Scope, entityName string, q Query) (*model.Connection, error) {
	return e.findMany(ctx, sc, entityName, q, false)
}

// FindManyIncludingDeleted is the explicit opt-in read that also
// returns soft-deleted rows. It is a distinct operation rather than a
// filter flag so a filter can never accidentally broaden visibility.
func (e *Engine) FindManyIncludingDeleted(ctx context.Context, sc scope.Scope, entityName string, q Query) (*model.Connection, error) {
	return e.findMany(ctx, sc, entityName, q, true)
}

func (e *Engine) findMany(ctx context.Context, sc scope.Scope, entityName string, q Query, includeDeleted bool) (*model.Connection, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return nil, err
	}
	conds, err := e.resolveFilter(entity, q.Filter)
	if err != nil {
		return nil, err
	}
	order, err := e.resolveOrder(entity, q.Order)
	if err != nil {
		return nil, err
	}

	limit := q.Page.Limit(DefaultPageSize)
	// The limit+1 probe must stay inside the engine's row cap.
	if limit+1 > e.adapter.MaxRows() {
		limit = e.adapter.MaxRows() - 1
	}

	backward := q.Page.Backward()
	scan := order
	if backward {
		scan = flipOrder(order)
	}

	var keyset *querybuilder.Keyset
	token := q.Page.After
	if backward {
		token = q.Page.Before
	}
	if token != "" {
		values, err := decodeCursor(token, entity.Name, order)
		if err != nil {
			return nil, err
		}
		keyset = keysetFor(scan, values)
	}

	spec := querybuilder.SelectSpec{
		Table:          entity.Table,
		Columns:        selectColumns(entity),
		Conds:          conds,
		Order:          scan,
		Keyset:         keyset,
		Limit:          limit + 1,
		IncludeDeleted: includeDeleted,
	}
	stmt, err := querybuilder.BuildSelect(sc, spec)
	if err != nil {
		return nil, err
	}
	stored, err := e.adapter.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	probed := len(stored) > limit
	if probed {
		stored = stored[:limit]
	}
	if backward {
		reverse(stored)
	}

	conn := &model.Connection{Edges: make([]model.Edge, len(stored)), TotalCount: -1}
	for i, s := range stored {
		conn.Edges[i] = model.Edge{
			Row:    e.rowFromStored(entity, s),
			Cursor: encodeCursor(entity.Name, order, s),
		}
	}
	if len(conn.Edges) > 0 {
		conn.PageInfo.StartCursor = conn.Edges[0].Cursor
		conn.PageInfo.EndCursor = conn.Edges[len(conn.Edges)-1].Cursor
	}
	if backward {
		conn.PageInfo.HasPreviousPage = probed
		conn.PageInfo.HasNextPage = q.Page.Before != ""
	} else {
		conn.PageInfo.HasNextPage = probed
		conn.PageInfo.HasPreviousPage = q.Page.After != ""
	}

	if q.WithTotal {
		total, err := e.count(ctx, sc, entity, conds, includeDeleted)
		if err != nil {
			return nil, err
		}
		conn.TotalCount = total
	}
	return conn, nil
}

// FindOne returns the first live row matching the filter, or
// model.ErrNotFound.
func (e *Engine) FindOne(ctx context.Context, sc scope.Scope, entityName string, filter model.Filter) (*model.Row, error) {
	return e.findOne(ctx, sc, entityName, filter, false)
}

// FindOneIncludingDeleted also considers soft-deleted rows.
func (e *Engine) FindOneIncludingDeleted(ctx context.Context, sc scope.Scope, entityName string, filter model.Filter) (*model.Row, error) {
	return e.findOne(ctx, sc, entityName, filter, true)
}

// FindByID returns the live row with the given id.
func (e *Engine) FindByID(ctx context.Context, sc scope.Scope, entityName, id string) (*model.Row, error) {
	return e.FindOne(ctx, sc, entityName, model.Filter{model.ColID: model.Eq(id)})
}

func (e *Engine) findOne(ctx context.Context, sc scope.Scope, entityName string, filter model.Filter, includeDeleted bool) (*model.Row, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return nil, err
	}
	conds, err := e.resolveFilter(entity, filter)
	if err != nil {
		return nil, err
	}
	order, err := e.resolveOrder(entity, nil)
	if err != nil {
		return nil, err
	}

	stmt, err := querybuilder.BuildSelect(sc, querybuilder.SelectSpec{
		Table:          entity.Table,
		Columns:        selectColumns(entity),
		Conds:          conds,
		Order:          order,
		Limit:          1,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return nil, err
	}
	stored, err := e.adapter.QueryOne(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, model.ErrNotFound
	}
	return e.rowFromStored(entity, stored), nil
}

// Count returns the number of live rows matching a filter.
func (e *Engine) Count(ctx context.Context, sc scope.Scope, entityName string, filter model.Filter) (int64, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return 0, err
	}
	conds, err := e.resolveFilter(entity, filter)
	if err != nil {
		return 0, err
	}
	return e.count(ctx, sc, entity, conds, false)
}

func (e *Engine) count(ctx context.Context, sc scope.Scope, entity *registry.Entity, conds []querybuilder.Cond, includeDeleted bool) (int64, error) {
	stmt, err := querybuilder.BuildCount(sc, querybuilder.SelectSpec{
		Table:          entity.Table,
		Conds:          conds,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return 0, err
	}
	row, err := e.adapter.QueryOne(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if n, ok := row["n"].(int64); ok {
		return n, nil
	}
	return 0, nil
}

// flipOrder reverses every term's direction and explicit null placement
// so a backward page scans from the end; results are reversed in memory
// afterwards, keeping the contract directionally symmetric.
func flipOrder(order []querybuilder.Order) []querybuilder.Order {
	flipped := make([]querybuilder.Order, len(order))
	for i, o := range order {
		f := querybuilder.Order{Column: o.Column, Desc: !o.Desc, Nulls: o.Nulls}
		switch o.Nulls {
		case model.NullsFirst:
			f.Nulls = model.NullsLast
		case model.NullsLast:
			f.Nulls = model.NullsFirst
		}
		flipped[i] = f
	}
	return flipped
}

func reverse(rows []map[string]any) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
