package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Document stores structured values as JSON TEXT.
type Document struct {
	logger *slog.Logger
}

// NewDocument creates a document transformer.
func NewDocument(logger *slog.Logger) *Document {
	return &Document{logger: orDefault(logger)}
}

// Serialize encodes v as JSON text. nil serializes to storage NULL.
func (d *Document) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	// Already-encoded text passes through so historical callers that
	// hand us raw JSON keep working.
	if s, ok := v.(json.RawMessage); ok {
		return string(s), nil
	}
	text, err := encodeJSON(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return text, nil
}

// Deserialize decodes stored JSON text. Malformed text is logged and
// yields nil rather than an error.
func (d *Document) Deserialize(v any) any {
	if v == nil {
		return nil
	}
	text, ok := asText(v)
	if !ok {
		d.logger.Warn("document column holds non-text value", "value_type", fmt.Sprintf("%T", v))
		return nil
	}
	if text == "" {
		return nil
	}
	var out any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		d.logger.Warn("malformed document in storage", "error", err)
		return nil
	}
	return out
}

// encodeJSON marshals without HTML escaping and without the trailing
// newline json.Encoder appends.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
