package engine

import (
	"context"
	"sort"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
	"github.com/user/crmcore/internal/scope"
	"github.com/user/crmcore/internal/sqlfrag"
)

// SearchResult is one keyword search hit.
type SearchResult struct {
	Entity string
	ID     string
	Label  string
	Score  float64
	Row    *model.Row
}

// searchScore is the uniform relevance every hit receives; the engine
// has no ranking function, only deterministic ordering after the score.
const searchScore = 1.0

// Search fans a keyword query out across every registered entity's
// searchable fields and merges the per-entity result sets in memory
// (the tables have different searchable columns, so SQL UNION does not
// apply). A failure in one entity's query is logged and skipped so it
// cannot suppress results from the others.
func (e *Engine) Search(ctx context.Context, sc scope.Scope, term string, limit int) ([]SearchResult, error) {
	if !sc.Valid() {
		return nil, model.ErrEmptyTenant
	}
	if term == "" || limit <= 0 {
		return nil, nil
	}
	if limit > e.adapter.MaxRows() {
		limit = e.adapter.MaxRows()
	}

	pattern := "%" + sqlfrag.EscapeLike(term) + "%"
	var results []SearchResult

	for _, entity := range e.reg.Entities() {
		match := make(querybuilder.Or, len(entity.Searchable))
		for i, field := range entity.Searchable {
			match[i] = querybuilder.Cond{Column: field, Op: model.OpLike, Value: pattern}
		}

		order, err := e.resolveOrder(entity, nil)
		if err != nil {
			return nil, err
		}
		stmt, err := querybuilder.BuildSelect(sc, querybuilder.SelectSpec{
			Table:   entity.Table,
			Columns: selectColumns(entity),
			Any:     match,
			Order:   order,
			Limit:   limit,
		})
		if err != nil {
			return nil, err
		}

		stored, err := e.adapter.Query(ctx, stmt)
		if err != nil {
			e.logger.Warn("keyword search failed for entity, skipping",
				"entity", entity.Name, "error", err)
			continue
		}

		for _, s := range stored {
			row := e.rowFromStored(entity, s)
			label, _ := row.Fields[entity.LabelField].(string)
			results = append(results, SearchResult{
				Entity: entity.Name,
				ID:     row.ID,
				Label:  label,
				Score:  searchScore,
				Row:    row,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Entity != results[j].Entity {
			return results[i].Entity < results[j].Entity
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
