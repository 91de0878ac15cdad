package engine

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/querybuilder"
)

// cursorPayload encodes a row's position under a specific ordering.
// The full order-by tuple travels with the cursor (fields, directions,
// null placements, captured sort-key values) so resumption is correct
// for any ordering, not just id scans, and so a cursor presented with a
// different order specification is detectable.
type cursorPayload struct {
	Entity string   `json:"e"`
	Fields []string `json:"f"`
	Dirs   []int    `json:"d"`
	Nulls  []int    `json:"n"`
	Values []any    `json:"v"`
}

// encodeCursor builds the opaque token resuming after the stored row
// under the given ordering.
func encodeCursor(entity string, order []querybuilder.Order, stored map[string]any) string {
	p := cursorPayload{
		Entity: entity,
		Fields: make([]string, len(order)),
		Dirs:   make([]int, len(order)),
		Nulls:  make([]int, len(order)),
		Values: make([]any, len(order)),
	}
	for i, o := range order {
		p.Fields[i] = o.Column
		if o.Desc {
			p.Dirs[i] = 1
		}
		p.Nulls[i] = int(o.Nulls)
		p.Values[i] = stored[o.Column]
	}
	data, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCursor validates a token against the current entity and order
// specification and returns the captured sort-key values. A cursor is
// only valid for the ordering it was issued under.
func decodeCursor(token, entity string, order []querybuilder.Order) ([]any, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCursor, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var p cursorPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCursor, err)
	}

	if p.Entity != entity {
		return nil, fmt.Errorf("%w: issued for entity %q", model.ErrInvalidCursor, p.Entity)
	}
	if len(p.Fields) != len(order) || len(p.Values) != len(order) ||
		len(p.Dirs) != len(order) || len(p.Nulls) != len(order) {
		return nil, fmt.Errorf("%w: order specification changed", model.ErrInvalidCursor)
	}
	for i, o := range order {
		dir := 0
		if o.Desc {
			dir = 1
		}
		if p.Fields[i] != o.Column || p.Dirs[i] != dir || p.Nulls[i] != int(o.Nulls) {
			return nil, fmt.Errorf("%w: order specification changed", model.ErrInvalidCursor)
		}
	}

	values := make([]any, len(p.Values))
	for i, v := range p.Values {
		values[i] = normalizeCursorValue(v)
	}
	return values, nil
}

// normalizeCursorValue undoes JSON decoding's number widening so bound
// parameters keep the primitive type the column stores.
func normalizeCursorValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// keysetFor pairs decoded cursor values with the scan ordering.
func keysetFor(scan []querybuilder.Order, values []any) *querybuilder.Keyset {
	terms := make([]querybuilder.KeysetTerm, len(scan))
	for i, o := range scan {
		terms[i] = querybuilder.KeysetTerm{Order: o, Value: values[i]}
	}
	return &querybuilder.Keyset{Terms: terms}
}
