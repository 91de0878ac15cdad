package transform

import (
	"fmt"
	"log/slog"
	"time"
)

// TimeLayout is the fixed storage format for instants. Millisecond
// precision with a trailing Z keeps lexical order equal to time order,
// which the query engine relies on for ORDER BY over timestamp columns.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Timestamp stores instants as fixed-format UTC TEXT.
type Timestamp struct {
	logger *slog.Logger
}

// NewTimestamp creates a timestamp transformer.
func NewTimestamp(logger *slog.Logger) *Timestamp {
	return &Timestamp{logger: orDefault(logger)}
}

// Serialize accepts a time.Time or an already-serialized string.
func (t *Timestamp) Serialize(v any) (any, error) {
	switch ts := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return ts.UTC().Format(TimeLayout), nil
	case *time.Time:
		if ts == nil {
			return nil, nil
		}
		return ts.UTC().Format(TimeLayout), nil
	case string:
		parsed, err := parseInstant(ts)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize timestamp %q: %w", ts, err)
		}
		return parsed.UTC().Format(TimeLayout), nil
	default:
		return nil, fmt.Errorf("failed to serialize timestamp: unsupported type %T", v)
	}
}

// Deserialize parses stored timestamp text. Unparseable text is logged
// and yields nil, never an error.
func (t *Timestamp) Deserialize(v any) any {
	if v == nil {
		return nil
	}
	text, ok := asText(v)
	if !ok {
		t.logger.Warn("timestamp column holds non-text value", "value_type", fmt.Sprintf("%T", v))
		return nil
	}
	parsed, err := parseInstant(text)
	if err != nil {
		t.logger.Warn("malformed timestamp in storage", "value", text, "error", err)
		return nil
	}
	return parsed
}

// parseInstant accepts the fixed storage layout plus RFC 3339 variants
// written by the previous engine.
func parseInstant(s string) (time.Time, error) {
	if ts, err := time.Parse(TimeLayout, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
