package querybuilder

import "strings"

// Keyset resumes a scan strictly after a previously-seen row under the
// ordering the statement carries. Terms must mirror the ORDER BY terms
// one for one, trailing id tiebreak included, with Value holding the
// last-seen row's serialized sort key for that term.
type Keyset struct {
	Terms []KeysetTerm
}

// KeysetTerm is one sort key captured from the cursor row.
type KeysetTerm struct {
	Order Order
	Value any
}

// after returns a fragment matching rows strictly after the captured
// value in scan order, and the values it binds. NULL sort keys are
// ordered by the term's null placement, so comparisons against them
// become IS NULL / IS NOT NULL tests rather than operators that a NULL
// operand would silently falsify.
func (t KeysetTerm) after() (string, []any) {
	col := t.Order.Column
	op := ">"
	if t.Order.Desc {
		op = "<"
	}

	if t.Value == nil {
		if t.Order.nullsFirst() {
			// Scan has passed the NULL block; everything non-NULL follows.
			return col + " IS NOT NULL", nil
		}
		// NULL block is last; only the id tiebreak can advance.
		return "1 = 0", nil
	}

	if t.Order.nullsFirst() {
		// NULL rows precede the captured value and the comparison
		// already excludes them.
		return col + " " + op + " ?", []any{t.Value}
	}
	// NULL rows trail every value, so they come after the captured one.
	return "(" + col + " " + op + " ? OR " + col + " IS NULL)", []any{t.Value}
}

// equal returns a fragment matching rows whose sort key equals the
// captured value.
func (t KeysetTerm) equal() (string, []any) {
	if t.Value == nil {
		return t.Order.Column + " IS NULL", nil
	}
	return t.Order.Column + " = ?", []any{t.Value}
}

// predicate renders the full resume condition:
//
//	after(t0) OR (eq(t0) AND (after(t1) OR (eq(t1) AND ...)))
//
// built inside-out from the last term.
func (k *Keyset) predicate() (string, []any) {
	if len(k.Terms) == 0 {
		return "1 = 1", nil
	}

	last := k.Terms[len(k.Terms)-1]
	frag, args := last.after()

	for i := len(k.Terms) - 2; i >= 0; i-- {
		t := k.Terms[i]
		afterSQL, afterArgs := t.after()
		eqSQL, eqArgs := t.equal()

		var b strings.Builder
		b.WriteString("(")
		b.WriteString(afterSQL)
		b.WriteString(" OR (")
		b.WriteString(eqSQL)
		b.WriteString(" AND ")
		b.WriteString(frag)
		b.WriteString("))")

		merged := make([]any, 0, len(afterArgs)+len(eqArgs)+len(args))
		merged = append(merged, afterArgs...)
		merged = append(merged, eqArgs...)
		merged = append(merged, args...)

		frag, args = b.String(), merged
	}

	if len(k.Terms) > 1 {
		return frag, args
	}
	return "(" + frag + ")", args
}
