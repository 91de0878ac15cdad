package transform

import (
	"fmt"
	"log/slog"
	"strings"
)

// Boolean stores booleans as INTEGER 0/1.
type Boolean struct {
	logger *slog.Logger
}

// NewBoolean creates a boolean transformer.
func NewBoolean(logger *slog.Logger) *Boolean {
	return &Boolean{logger: orDefault(logger)}
}

// Serialize encodes a bool as 0 or 1.
func (b *Boolean) Serialize(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, fmt.Errorf("failed to serialize boolean: unsupported type %T", v)
	}
}

// Deserialize accepts the integer encoding plus legacy textual truthy
// encodings left behind by the previous engine.
func (b *Boolean) Deserialize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	case string, []byte:
		text, _ := asText(v)
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "1", "true", "t", "yes":
			return true
		case "0", "false", "f", "no", "":
			return false
		}
		b.logger.Warn("malformed boolean in storage", "value", text)
		return nil
	default:
		b.logger.Warn("boolean column holds unsupported value", "value_type", fmt.Sprintf("%T", v))
		return nil
	}
}
