package model

// Direction of an ORDER BY term.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// NullPlacement controls where NULL sort keys land in an ordering.
// NullsDefault follows the storage engine's native placement
// (NULLs first for ascending, last for descending).
type NullPlacement int

const (
	NullsDefault NullPlacement = iota
	NullsFirst
	NullsLast
)

// OrderBy is one term of an order specification. The engine always
// appends a final ascending tiebreak on id so pagination is stable
// even when the requested ordering has ties.
type OrderBy struct {
	Field     string
	Direction Direction
	Nulls     NullPlacement
}

// Page describes a pagination request. First/After scan forward,
// Last/Before scan backward; the two pairs are mutually exclusive.
type Page struct {
	First  int
	After  string
	Last   int
	Before string
}

// Backward returns true if the request paginates from the end.
func (p Page) Backward() bool {
	return p.Last > 0 || p.Before != ""
}

// Limit returns the requested page size, or def if none was given.
func (p Page) Limit(def int) int {
	if p.Backward() {
		if p.Last > 0 {
			return p.Last
		}
		return def
	}
	if p.First > 0 {
		return p.First
	}
	return def
}

// Edge pairs a row with the cursor that resumes after it.
type Edge struct {
	Row    *Row
	Cursor string
}

// PageInfo describes a connection's position within the full result set.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// Connection is the result of a paginated read.
type Connection struct {
	Edges      []Edge
	PageInfo   PageInfo
	TotalCount int64 // -1 when not requested
}

// Rows returns the connection's rows in order.
func (c *Connection) Rows() []*Row {
	rows := make([]*Row, len(c.Edges))
	for i, e := range c.Edges {
		rows[i] = e.Row
	}
	return rows
}
