package transform

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDocument_RoundTrip(t *testing.T) {
	d := NewDocument(silent())

	t.Run("storage round-trip law", func(t *testing.T) {
		// serialize(deserialize(x)) == x for stored primitives.
		stored := []any{
			`{"city":"Paris"}`,
			`["a","b"]`,
			`"plain"`,
			`42`,
			nil,
		}
		for _, x := range stored {
			back, err := d.Serialize(d.Deserialize(x))
			require.NoError(t, err)
			assert.Equal(t, x, back)
		}
	})

	t.Run("value round-trip", func(t *testing.T) {
		v := map[string]any{"city": "Paris", "zip": "75001"}
		stored, err := d.Serialize(v)
		require.NoError(t, err)
		assert.Equal(t, v, d.Deserialize(stored))
	})

	t.Run("nil serializes to NULL", func(t *testing.T) {
		stored, err := d.Serialize(nil)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("no html escaping", func(t *testing.T) {
		stored, err := d.Serialize(map[string]any{"q": "a<b>&c"})
		require.NoError(t, err)
		assert.Equal(t, `{"q":"a<b>&c"}`, stored)
	})
}

func TestDocument_MalformedNeverRaises(t *testing.T) {
	d := NewDocument(silent())

	for _, malformed := range []any{
		"{not json",
		`{"open":`,
		"\x00\x01",
		int64(7), // non-text storage value
	} {
		assert.Nil(t, d.Deserialize(malformed))
	}
}

func TestList_RoundTrip(t *testing.T) {
	l := NewList(silent())

	t.Run("storage round-trip law", func(t *testing.T) {
		for _, x := range []any{`["a","b"]`, `[]`, nil} {
			back, err := l.Serialize(l.Deserialize(x))
			require.NoError(t, err)
			assert.Equal(t, x, back)
		}
	})

	t.Run("serializes slices", func(t *testing.T) {
		stored, err := l.Serialize([]string{"hot", "eu"})
		require.NoError(t, err)
		assert.Equal(t, `["hot","eu"]`, stored)
	})

	t.Run("coerces scalar to single-element list", func(t *testing.T) {
		stored, err := l.Serialize("solo")
		require.NoError(t, err)
		assert.Equal(t, `["solo"]`, stored)
	})

	t.Run("malformed text yields empty list", func(t *testing.T) {
		assert.Equal(t, []any{}, l.Deserialize("[broken"))
	})

	t.Run("stored scalar coerces on read", func(t *testing.T) {
		assert.Equal(t, []any{"solo"}, l.Deserialize(`"solo"`))
	})
}

func TestTimestamp_RoundTrip(t *testing.T) {
	tr := NewTimestamp(silent())

	t.Run("storage round-trip law", func(t *testing.T) {
		for _, x := range []any{"2026-03-01T12:00:00.000Z", nil} {
			back, err := tr.Serialize(tr.Deserialize(x))
			require.NoError(t, err)
			assert.Equal(t, x, back)
		}
	})

	t.Run("serializes instants in UTC", func(t *testing.T) {
		paris := time.FixedZone("CET", 3600)
		stored, err := tr.Serialize(time.Date(2026, 3, 1, 13, 0, 0, 0, paris))
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01T12:00:00.000Z", stored)
	})

	t.Run("accepts already-serialized strings", func(t *testing.T) {
		stored, err := tr.Serialize("2026-03-01T12:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01T12:00:00.000Z", stored)
	})

	t.Run("rejects unparseable input on write", func(t *testing.T) {
		_, err := tr.Serialize("not a time")
		require.Error(t, err)
	})

	t.Run("unparseable stored text yields nil", func(t *testing.T) {
		assert.Nil(t, tr.Deserialize("not a time"))
		assert.Nil(t, tr.Deserialize(int64(12)))
	})

	t.Run("lexical order matches time order", func(t *testing.T) {
		early, err := tr.Serialize(time.Date(2026, 3, 1, 9, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		late, err := tr.Serialize(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Less(t, early.(string), late.(string))
	})
}

func TestBoolean_RoundTrip(t *testing.T) {
	b := NewBoolean(silent())

	t.Run("storage round-trip law", func(t *testing.T) {
		for _, x := range []any{int64(0), int64(1), nil} {
			v := b.Deserialize(x)
			back, err := b.Serialize(v)
			require.NoError(t, err)
			assert.Equal(t, x, back)
		}
	})

	t.Run("legacy textual encodings", func(t *testing.T) {
		assert.Equal(t, true, b.Deserialize("true"))
		assert.Equal(t, true, b.Deserialize("1"))
		assert.Equal(t, true, b.Deserialize("YES"))
		assert.Equal(t, false, b.Deserialize("false"))
		assert.Equal(t, false, b.Deserialize("0"))
		assert.Equal(t, false, b.Deserialize(""))
	})

	t.Run("malformed text yields nil", func(t *testing.T) {
		assert.Nil(t, b.Deserialize("maybe"))
	})

	t.Run("rejects non-bool on write", func(t *testing.T) {
		_, err := b.Serialize("true")
		require.Error(t, err)
	})
}

func TestForKind(t *testing.T) {
	logger := silent()

	assert.IsType(t, &Document{}, ForKind(KindDocument, logger))
	assert.IsType(t, &List{}, ForKind(KindList, logger))
	assert.IsType(t, &Timestamp{}, ForKind(KindTimestamp, logger))
	assert.IsType(t, &Boolean{}, ForKind(KindBoolean, logger))
	assert.IsType(t, Identity{}, ForKind(KindText, logger))

	t.Run("identity normalizes byte text", func(t *testing.T) {
		assert.Equal(t, "abc", Identity{}.Deserialize([]byte("abc")))
		assert.Equal(t, int64(3), Identity{}.Deserialize(int64(3)))
	})
}
