// Package registry holds the fixed set of entity tables and their
// physical column contracts. The previous system generated per-entity
// CRUD resolvers at startup; here the same information lives in a
// static table the engine looks operations up in.
package registry

import (
	"fmt"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/transform"
)

// Column describes one entity-specific physical column.
type Column struct {
	Name string
	Kind transform.Kind
}

// Entity describes one entity table: its physical columns, which
// columns keyword search scans, and which column labels a search hit.
type Entity struct {
	Name       string
	Table      string
	Columns    []Column
	Searchable []string
	LabelField string
}

// Column returns the named entity-specific column.
func (e *Entity) Column(name string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the entity-specific column names in declaration order.
func (e *Entity) ColumnNames() []string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.Name
	}
	return names
}

// Registry maps entity names to their definitions.
type Registry struct {
	entities map[string]*Entity
	order    []string
}

// New builds a registry from entity definitions.
func New(entities ...*Entity) (*Registry, error) {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if _, dup := r.entities[e.Name]; dup {
			return nil, fmt.Errorf("duplicate entity %q", e.Name)
		}
		for _, s := range e.Searchable {
			if _, ok := e.Column(s); !ok {
				return nil, fmt.Errorf("entity %q: searchable field %q is not a column", e.Name, s)
			}
		}
		r.entities[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return r, nil
}

// Entity returns the named entity definition.
func (r *Registry) Entity(name string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownEntity, name)
	}
	return e, nil
}

// Entities returns all entity definitions in registration order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// Default returns the registry for the standard CRM object set.
func Default() *Registry {
	r, err := New(
		&Entity{
			Name:  "company",
			Table: "company",
			Columns: []Column{
				{Name: "name", Kind: transform.KindText},
				{Name: "domain_name", Kind: transform.KindText},
				{Name: "address", Kind: transform.KindDocument},
				{Name: "employees", Kind: transform.KindInteger},
				{Name: "icp", Kind: transform.KindBoolean},
				{Name: "tags", Kind: transform.KindList},
			},
			Searchable: []string{"name", "domain_name"},
			LabelField: "name",
		},
		&Entity{
			Name:  "person",
			Table: "person",
			Columns: []Column{
				{Name: "first_name", Kind: transform.KindText},
				{Name: "last_name", Kind: transform.KindText},
				{Name: "email", Kind: transform.KindText},
				{Name: "phone", Kind: transform.KindText},
				{Name: "city", Kind: transform.KindText},
				{Name: "company_id", Kind: transform.KindText},
				{Name: "tags", Kind: transform.KindList},
			},
			Searchable: []string{"first_name", "last_name", "email"},
			LabelField: "last_name",
		},
		&Entity{
			Name:  "opportunity",
			Table: "opportunity",
			Columns: []Column{
				{Name: "name", Kind: transform.KindText},
				{Name: "amount", Kind: transform.KindReal},
				{Name: "stage", Kind: transform.KindText},
				{Name: "close_date", Kind: transform.KindTimestamp},
				{Name: "company_id", Kind: transform.KindText},
			},
			Searchable: []string{"name"},
			LabelField: "name",
		},
		&Entity{
			Name:  "task",
			Table: "task",
			Columns: []Column{
				{Name: "title", Kind: transform.KindText},
				{Name: "body", Kind: transform.KindText},
				{Name: "status", Kind: transform.KindText},
				{Name: "due_at", Kind: transform.KindTimestamp},
				{Name: "assignee_id", Kind: transform.KindText},
			},
			Searchable: []string{"title", "body"},
			LabelField: "title",
		},
		&Entity{
			Name:  "note",
			Table: "note",
			Columns: []Column{
				{Name: "title", Kind: transform.KindText},
				{Name: "body", Kind: transform.KindText},
			},
			Searchable: []string{"title", "body"},
			LabelField: "title",
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Stages an opportunity moves through.
const (
	StageNew       = "NEW"
	StageScreening = "SCREENING"
	StageMeeting   = "MEETING"
	StageProposal  = "PROPOSAL"
	StageCustomer  = "CUSTOMER"
)

// Task statuses.
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)
