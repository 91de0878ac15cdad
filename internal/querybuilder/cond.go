package querybuilder

import (
	"fmt"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/sqlfrag"
)

// Cond is a single compiled-down predicate term. Column names come from
// the entity registry and values are already serialized to primitives;
// the engine performs both resolutions before building.
type Cond struct {
	Column string
	Path   string // non-empty for document-path predicates
	Op     model.Op
	Value  any
	Values []any
}

// target returns the SQL expression the condition compares.
func (c Cond) target() string {
	if c.Path != "" {
		return sqlfrag.ExtractPath(c.Column, c.Path)
	}
	return c.Column
}

// compile renders the condition as a fragment plus its bound values.
func (c Cond) compile() (string, []any, error) {
	target := c.target()

	switch c.Op {
	case model.OpEq:
		return target + " = ?", []any{c.Value}, nil
	case model.OpNeq:
		return target + " != ?", []any{c.Value}, nil
	case model.OpIn:
		if len(c.Values) == 0 {
			// IN over the empty set matches nothing.
			return "1 = 0", nil, nil
		}
		return fmt.Sprintf("%s IN (%s)", target, sqlfrag.Placeholders(len(c.Values))), c.Values, nil
	case model.OpLike:
		return sqlfrag.CaseInsensitiveLike(target), []any{c.Value}, nil
	case model.OpIsNull:
		return target + " IS NULL", nil, nil
	case model.OpIsNotNull:
		return target + " IS NOT NULL", nil, nil
	case model.OpContains:
		if c.Path != "" {
			return "", nil, fmt.Errorf("array predicate on document path %s.%s is not supported", c.Column, c.Path)
		}
		return sqlfrag.ArrayContains(c.Column), []any{c.Value}, nil
	case model.OpContainsAny:
		if c.Path != "" {
			return "", nil, fmt.Errorf("array predicate on document path %s.%s is not supported", c.Column, c.Path)
		}
		if len(c.Values) == 0 {
			return "1 = 0", nil, nil
		}
		return sqlfrag.ArrayContainsAny(c.Column, len(c.Values)), c.Values, nil
	case model.OpContainsAll:
		if c.Path != "" {
			return "", nil, fmt.Errorf("array predicate on document path %s.%s is not supported", c.Column, c.Path)
		}
		if len(c.Values) == 0 {
			// Vacuously true.
			return "1 = 1", nil, nil
		}
		return sqlfrag.ArrayContainsAll(c.Column, len(c.Values)), c.Values, nil
	case model.OpArrayIsEmpty:
		return sqlfrag.ArrayIsEmpty(c.Column), nil, nil
	case model.OpArrayIsNotEmpty:
		return sqlfrag.ArrayIsNotEmpty(c.Column), nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported filter operator %d", c.Op)
	}
}

// Or is a disjunction of conditions, used by keyword search to scan
// several searchable columns with one statement.
type Or []Cond

func (o Or) compile() (string, []any, error) {
	if len(o) == 0 {
		return "1 = 0", nil, nil
	}
	sql := "("
	var args []any
	for i, c := range o {
		frag, condArgs, err := c.compile()
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			sql += " OR "
		}
		sql += frag
		args = append(args, condArgs...)
	}
	return sql + ")", args, nil
}
