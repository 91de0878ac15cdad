// Package engine composes scoped filters, ordering and pagination into
// statements, executes them through the storage adapter, and shapes
// results into paginated connections. It is the only consumer of the
// query builder and the only producer of pagination cursors.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/storage"
	"github.com/user/crmcore/internal/transform"
)

// DefaultPageSize applies when a query requests no explicit page size.
const DefaultPageSize = 50

// Engine executes reads and mutations for every registered entity.
type Engine struct {
	adapter *storage.Adapter
	reg     *registry.Registry
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option customizes an Engine, mainly for tests.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New creates an engine over an adapter and an entity registry.
func New(adapter *storage.Adapter, reg *registry.Registry, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		adapter: adapter,
		reg:     reg,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query describes a read-many request.
type Query struct {
	Filter    model.Filter
	Order     []model.OrderBy
	Page      model.Page
	WithTotal bool
}

// transformer returns the value transformer for a column kind.
func (e *Engine) transformer(k transform.Kind) transform.Transformer {
	return transform.ForKind(k, e.logger)
}

// resolveFilter validates a caller filter against the entity's column
// contract and serializes its operand values to storage primitives.
// Field names are processed in sorted order so generated SQL is
// deterministic. A field may address a path inside a document column
// with dot notation ("address.city").
func (e *Engine) resolveFilter(entity *registry.Entity, filter model.Filter) ([]querybuilder.Cond, error) {
	if len(filter) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(filter))
	for name := range filter {
		names = append(names, name)
	}
	sort.Strings(names)

	conds := make([]querybuilder.Cond, 0, len(names))
	for _, name := range names {
		cond, err := e.resolveCond(entity, name, filter[name])
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func (e *Engine) resolveCond(entity *registry.Entity, field string, c model.Condition) (querybuilder.Cond, error) {
	column, path, tr, err := e.resolveField(entity, field)
	if err != nil {
		return querybuilder.Cond{}, err
	}

	out := querybuilder.Cond{Column: column, Path: path, Op: c.Op}
	switch c.Op {
	case model.OpIsNull, model.OpIsNotNull, model.OpArrayIsEmpty, model.OpArrayIsNotEmpty:
		// No operand.
	case model.OpLike:
		pattern, ok := c.Value.(string)
		if !ok {
			return querybuilder.Cond{}, fmt.Errorf("like filter on %q requires a string pattern", field)
		}
		out.Value = pattern
	case model.OpContains, model.OpContainsAny, model.OpContainsAll:
		// List elements are stored as raw JSON scalars; json_each
		// yields them back unwrapped, so operands bind as-is.
		out.Value = c.Value
		out.Values = c.Values
	default:
		if path != "" {
			out.Value = serializePathValue(c.Value)
			out.Values = make([]any, len(c.Values))
			for i, v := range c.Values {
				out.Values[i] = serializePathValue(v)
			}
			break
		}
		if c.Value != nil {
			v, err := tr.Serialize(c.Value)
			if err != nil {
				return querybuilder.Cond{}, fmt.Errorf("filter on %q: %w", field, err)
			}
			out.Value = v
		}
		if len(c.Values) > 0 {
			out.Values = make([]any, len(c.Values))
			for i, v := range c.Values {
				sv, err := tr.Serialize(v)
				if err != nil {
					return querybuilder.Cond{}, fmt.Errorf("filter on %q: %w", field, err)
				}
				out.Values[i] = sv
			}
		}
	}
	return out, nil
}

// resolveField maps a filter/order field name to its physical column,
// optional document path, and transformer. Filters on tenant_id and
// deleted_at are rejected: tenant scoping is injected by the builder
// and soft-delete visibility is a distinct operation, not a filter.
func (e *Engine) resolveField(entity *registry.Entity, field string) (column, path string, tr transform.Transformer, err error) {
	name := field
	if i := strings.IndexByte(field, '.'); i > 0 {
		name, path = field[:i], field[i+1:]
	}

	switch name {
	case model.ColTenantID, model.ColDeletedAt:
		return "", "", nil, fmt.Errorf("%w: %q is managed by the engine", model.ErrUnknownField, field)
	case model.ColID:
		return model.ColID, "", transform.Identity{}, nil
	case model.ColCreatedAt, model.ColUpdatedAt:
		return name, "", e.transformer(transform.KindTimestamp), nil
	}

	col, ok := entity.Column(name)
	if !ok {
		return "", "", nil, fmt.Errorf("%w: %q on entity %q", model.ErrUnknownField, field, entity.Name)
	}
	if path != "" && col.Kind != transform.KindDocument {
		return "", "", nil, fmt.Errorf("%w: %q addresses a path inside a non-document column", model.ErrUnknownField, field)
	}
	return col.Name, path, e.transformer(col.Kind), nil
}

// resolveOrder validates an order specification and ensures it ends in
// a total order: a caller-supplied id term keeps its direction, and
// when none is given an ascending id tiebreak is appended so pagination
// stays stable under ties.
func (e *Engine) resolveOrder(entity *registry.Entity, orders []model.OrderBy) ([]querybuilder.Order, error) {
	out := make([]querybuilder.Order, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		column, path, _, err := e.resolveField(entity, o.Field)
		if err != nil {
			return nil, err
		}
		if path != "" {
			return nil, fmt.Errorf("%w: ordering by document path %q is not supported", model.ErrUnknownField, o.Field)
		}
		if column == model.ColID {
			if hasID {
				// Duplicate id terms add nothing; the first one
				// already made the order total.
				continue
			}
			hasID = true
		}
		out = append(out, querybuilder.Order{
			Column: column,
			Desc:   o.Direction == model.Desc,
			Nulls:  o.Nulls,
		})
	}
	if !hasID {
		out = append(out, querybuilder.Order{Column: model.ColID})
	}
	return out, nil
}

// serializePathValue converts an operand compared against a document
// path to the primitive json_extract evaluates to.
func serializePathValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return val.UTC().Format(transform.TimeLayout)
	default:
		return v
	}
}

// selectColumns lists every physical column of an entity table in a
// fixed order: system columns first, then entity columns as declared.
func selectColumns(entity *registry.Entity) []string {
	cols := []string{model.ColID, model.ColTenantID, model.ColCreatedAt, model.ColUpdatedAt, model.ColDeletedAt}
	return append(cols, entity.ColumnNames()...)
}

// rowFromStored shapes a stored primitive row into a model.Row,
// running every entity column through its transformer.
func (e *Engine) rowFromStored(entity *registry.Entity, stored map[string]any) *model.Row {
	row := &model.Row{Fields: make(map[string]any, len(entity.Columns))}

	if id, ok := stored[model.ColID].(string); ok {
		row.ID = id
	}
	if tid, ok := stored[model.ColTenantID].(string); ok {
		row.TenantID = tid
	}

	ts := e.transformer(transform.KindTimestamp)
	if v, ok := ts.Deserialize(stored[model.ColCreatedAt]).(time.Time); ok {
		row.CreatedAt = v
	}
	if v, ok := ts.Deserialize(stored[model.ColUpdatedAt]).(time.Time); ok {
		row.UpdatedAt = v
	}
	if v, ok := ts.Deserialize(stored[model.ColDeletedAt]).(time.Time); ok {
		row.DeletedAt = &v
	}

	for _, col := range entity.Columns {
		v := e.transformer(col.Kind).Deserialize(stored[col.Name])
		if v != nil {
			row.Fields[col.Name] = v
		}
	}
	return row
}

// serializeFields validates entity-specific field values and serializes
// them to column assignments in declaration order. System fields are
// rejected; they are engine-managed.
func (e *Engine) serializeFields(entity *registry.Entity, fields map[string]any) ([]querybuilder.ColumnValue, error) {
	for name := range fields {
		switch name {
		case model.ColID, model.ColTenantID, model.ColCreatedAt, model.ColUpdatedAt, model.ColDeletedAt:
			return nil, fmt.Errorf("%w: %s", model.ErrImmutableField, name)
		}
		if _, ok := entity.Column(name); !ok {
			return nil, fmt.Errorf("%w: %q on entity %q", model.ErrUnknownField, name, entity.Name)
		}
	}

	out := make([]querybuilder.ColumnValue, 0, len(fields))
	for _, col := range entity.Columns {
		v, ok := fields[col.Name]
		if !ok {
			continue
		}
		sv, err := e.transformer(col.Kind).Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", col.Name, err)
		}
		out = append(out, querybuilder.ColumnValue{Column: col.Name, Value: sv})
	}
	return out, nil
}

func (e *Engine) nowStored() (time.Time, string) {
	now := e.now().UTC().Truncate(time.Millisecond)
	return now, now.Format(transform.TimeLayout)
}
