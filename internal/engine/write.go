package engine

import (
	"context"
	"fmt"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
	"github.com/user/crmcore/internal/scope"
)

// CreateOne inserts a new row with a generated id and current
// timestamps. The tenant comes from the scope, never from fields.
func (e *Engine) CreateOne(ctx context.Context, sc scope.Scope, entityName string, fields map[string]any) (*model.Row, model.MutationInfo, error) {
	rows, infos, err := e.CreateMany(ctx, sc, entityName, []map[string]any{fields})
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	return rows[0], infos[0], nil
}

// CreateMany inserts several rows as one atomic batch: either every row
// is persisted or none is.
func (e *Engine) CreateMany(ctx context.Context, sc scope.Scope, entityName string, fieldSets []map[string]any) ([]*model.Row, []model.MutationInfo, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return nil, nil, err
	}
	if len(fieldSets) == 0 {
		return nil, nil, model.ErrEmptyBatch
	}

	now, nowText := e.nowStored()
	batch := e.adapter.NewBatch()
	rows := make([]*model.Row, 0, len(fieldSets))
	infos := make([]model.MutationInfo, 0, len(fieldSets))

	for _, fields := range fieldSets {
		values, err := e.serializeFields(entity, fields)
		if err != nil {
			return nil, nil, err
		}
		id := e.newID()

		insert := []querybuilder.ColumnValue{
			{Column: model.ColID, Value: id},
			{Column: model.ColCreatedAt, Value: nowText},
			{Column: model.ColUpdatedAt, Value: nowText},
		}
		insert = append(insert, values...)

		stmt, err := querybuilder.BuildInsert(sc, entity.Table, insert)
		if err != nil {
			return nil, nil, err
		}
		batch.Add(stmt)

		row := &model.Row{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
			Fields:    make(map[string]any, len(values)),
		}
		sc.ApplyToRow(row)
		for _, cv := range values {
			col, _ := entity.Column(cv.Column)
			if v := e.transformer(col.Kind).Deserialize(cv.Value); v != nil {
				row.Fields[cv.Column] = v
			}
		}
		rows = append(rows, row)
		infos = append(infos, model.MutationInfo{
			Entity: entity.Name, ID: id, TenantID: sc.TenantID(), Op: model.OpCreate,
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return rows, infos, nil
}

// UpdateOne modifies a live row's entity-specific fields, refreshing
// updated_at, and returns the post-update row by re-reading it (the
// engine has no RETURNING clause).
func (e *Engine) UpdateOne(ctx context.Context, sc scope.Scope, entityName, id string, fields map[string]any) (*model.Row, model.MutationInfo, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	sets, err := e.serializeFields(entity, fields)
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	if len(sets) == 0 {
		return nil, model.MutationInfo{}, model.ErrNoColumns
	}

	_, nowText := e.nowStored()
	sets = append(sets, querybuilder.ColumnValue{Column: model.ColUpdatedAt, Value: nowText})

	stmt, err := querybuilder.BuildUpdate(sc, entity.Table, id, sets)
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	res, err := e.adapter.Execute(ctx, stmt)
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	if res.Changed == 0 {
		return nil, model.MutationInfo{}, fmt.Errorf("%w: %s %q", model.ErrNotFound, entity.Name, id)
	}

	row, err := e.FindByID(ctx, sc, entityName, id)
	if err != nil {
		return nil, model.MutationInfo{}, err
	}
	return row, model.MutationInfo{
		Entity: entity.Name, ID: id, TenantID: sc.TenantID(), Op: model.OpUpdate,
	}, nil
}

// SoftDeleteOne marks a live row deleted. Deleting an already-deleted
// row is a no-op, not an error, and does not advance its timestamps.
// The returned bool reports whether this call actually deleted the row,
// so callers broadcasting change events can skip the no-op case.
func (e *Engine) SoftDeleteOne(ctx context.Context, sc scope.Scope, entityName, id string) (bool, model.MutationInfo, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return false, model.MutationInfo{}, err
	}

	_, nowText := e.nowStored()
	stmt, err := querybuilder.BuildSoftDelete(sc, entity.Table, id, nowText)
	if err != nil {
		return false, model.MutationInfo{}, err
	}
	res, err := e.adapter.Execute(ctx, stmt)
	if err != nil {
		return false, model.MutationInfo{}, err
	}
	if res.Changed == 0 {
		// Either already deleted (no-op) or truly absent.
		if _, err := e.FindOneIncludingDeleted(ctx, sc, entityName, model.Filter{model.ColID: model.Eq(id)}); err != nil {
			return false, model.MutationInfo{}, fmt.Errorf("%w: %s %q", model.ErrNotFound, entity.Name, id)
		}
	}
	return res.Changed > 0, model.MutationInfo{
		Entity: entity.Name, ID: id, TenantID: sc.TenantID(), Op: model.OpDelete,
	}, nil
}

// HardDeleteOne physically removes a row regardless of soft-delete
// state. It reports whether a row was actually removed; this is the
// only operation that makes data unrecoverable.
func (e *Engine) HardDeleteOne(ctx context.Context, sc scope.Scope, entityName, id string) (bool, model.MutationInfo, error) {
	entity, err := e.reg.Entity(entityName)
	if err != nil {
		return false, model.MutationInfo{}, err
	}

	stmt, err := querybuilder.BuildHardDelete(sc, entity.Table, id)
	if err != nil {
		return false, model.MutationInfo{}, err
	}
	res, err := e.adapter.Execute(ctx, stmt)
	if err != nil {
		return false, model.MutationInfo{}, err
	}
	return res.Changed > 0, model.MutationInfo{
		Entity: entity.Name, ID: id, TenantID: sc.TenantID(), Op: model.OpHardDelete,
	}, nil
}
