// Package sqlfrag builds parameterized SQL fragments that emulate the
// rich predicates the previous engine had natively: JSON path
// extraction, array membership, and case-insensitive text matching.
//
// Functions take column names and paths from trusted code (the entity
// registry), never user input. Values always flow through bound
// parameters; no helper interpolates a value into SQL text.
package sqlfrag

import (
	"fmt"
	"strings"
)

// LikeEscapeChar is the escape character every LIKE fragment declares.
const LikeEscapeChar = `\`

// ExtractPath builds an expression locating a field inside a serialized
// document column, e.g. ExtractPath("address", "city") selects the city
// of a JSON-encoded address.
func ExtractPath(column, path string) string {
	return fmt.Sprintf("json_extract(%s, '$.%s')", column, path)
}

// ArrayContains matches list columns containing the bound value.
// Binds one parameter.
func ArrayContains(column string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column)
}

// ArrayContainsAny matches list columns containing at least one of n
// bound values. Binds n parameters.
func ArrayContainsAny(column string, n int) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))",
		column, Placeholders(n))
}

// ArrayContainsAll matches list columns containing every one of n bound
// values. Binds n parameters.
func ArrayContainsAll(column string, n int) string {
	return fmt.Sprintf("(SELECT COUNT(DISTINCT json_each.value) FROM json_each(%s) WHERE json_each.value IN (%s)) = %d",
		column, Placeholders(n), n)
}

// ArrayLength evaluates to the number of elements in a list column,
// treating NULL as empty.
func ArrayLength(column string) string {
	return fmt.Sprintf("COALESCE(json_array_length(%s), 0)", column)
}

// ArrayIsEmpty matches list columns holding an empty list or NULL.
func ArrayIsEmpty(column string) string {
	return ArrayLength(column) + " = 0"
}

// ArrayIsNotEmpty matches list columns holding at least one element.
func ArrayIsNotEmpty(column string) string {
	return ArrayLength(column) + " > 0"
}

// CaseInsensitiveLike matches a column against a bound LIKE pattern,
// ignoring case. The native LIKE is case-sensitive for non-ASCII and
// for columns with a binary collation, so both sides are lowered.
// Binds one parameter; patterns containing user text must be passed
// through EscapeLike first.
func CaseInsensitiveLike(column string) string {
	return fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '%s'", column, LikeEscapeChar)
}

// CaseInsensitiveEquals matches a column against a bound value,
// ignoring case. Binds one parameter.
func CaseInsensitiveEquals(column string) string {
	return fmt.Sprintf("LOWER(%s) = LOWER(?)", column)
}

// EscapeLike escapes LIKE wildcard and escape characters in user text
// so the text only ever matches literally. Apply before embedding user
// input in a pattern, e.g. "%" + EscapeLike(term) + "%".
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, LikeEscapeChar, LikeEscapeChar+LikeEscapeChar)
	s = strings.ReplaceAll(s, "%", LikeEscapeChar+"%")
	s = strings.ReplaceAll(s, "_", LikeEscapeChar+"_")
	return s
}

// Placeholders returns n comma-separated bound-parameter markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
