package transform

import (
	"fmt"
	"log/slog"
	"reflect"
)

// List stores sequences as JSON array TEXT.
type List struct {
	logger *slog.Logger
}

// NewList creates a list transformer.
func NewList(logger *slog.Logger) *List {
	return &List{logger: orDefault(logger)}
}

// Serialize encodes a sequence as a JSON array. A non-sequence input is
// coerced to a single-element sequence with a warning; historical data
// written before list columns were enforced contains bare scalars.
func (l *List) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		l.logger.Warn("coercing non-list value to single-element list", "value_type", fmt.Sprintf("%T", v))
		v = []any{v}
	}
	text, err := encodeJSON(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize list: %w", err)
	}
	return text, nil
}

// Deserialize decodes a stored JSON array. Malformed text or a stored
// non-array is logged and yields an empty list. Stored NULL stays nil
// so that absent lists round-trip unchanged.
func (l *List) Deserialize(v any) any {
	if v == nil {
		return nil
	}
	decoded := NewDocument(l.logger).Deserialize(v)
	if decoded == nil {
		return []any{}
	}
	list, ok := decoded.([]any)
	if !ok {
		l.logger.Warn("list column holds non-array document, coercing", "value_type", fmt.Sprintf("%T", decoded))
		return []any{decoded}
	}
	return list
}
