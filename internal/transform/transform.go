// Package transform converts rich in-memory values to and from the
// primitive column representations (TEXT, INTEGER, REAL, NULL) that the
// storage engine supports.
//
// Every transformer satisfies the round-trip law on the storage side:
// Serialize(Deserialize(x)) == x for any primitive x the transformer
// itself produced. Deserialize is lenient: malformed stored values are
// logged and replaced with a safe default instead of failing the read,
// so one corrupt value cannot fail an otherwise-healthy request.
package transform

import (
	"fmt"
	"log/slog"
)

// Kind identifies the logical type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
	KindDocument
	KindList
	KindTimestamp
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindDocument:
		return "document"
	case KindList:
		return "list"
	case KindTimestamp:
		return "timestamp"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transformer converts between in-memory values and primitive storage
// values. Serialize rejects values it cannot represent; Deserialize
// never fails.
type Transformer interface {
	Serialize(v any) (any, error)
	Deserialize(v any) any
}

// ForKind returns the transformer for a column kind. Primitive kinds
// get the identity transformer.
func ForKind(k Kind, logger *slog.Logger) Transformer {
	switch k {
	case KindDocument:
		return NewDocument(logger)
	case KindList:
		return NewList(logger)
	case KindTimestamp:
		return NewTimestamp(logger)
	case KindBoolean:
		return NewBoolean(logger)
	default:
		return Identity{}
	}
}

// Identity passes primitive values through unchanged, normalizing the
// driver's []byte TEXT representation to string on read.
type Identity struct{}

// Serialize returns v unchanged.
func (Identity) Serialize(v any) (any, error) {
	return v, nil
}

// Deserialize returns v unchanged except for []byte, which becomes string.
func (Identity) Deserialize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// asText normalizes a stored primitive to a string, reporting whether
// it held text at all.
func asText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
