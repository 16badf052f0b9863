// Package filter provides the predicate narrowing shared by every
// repository's query surface: exact equality for enum-like fields,
// case-insensitive substring search for free text, and inclusive date
// ranges. Conditions compose by conjunction. A condition is either present
// on the Filter or absent; the "All" sentinel is resolved at the HTTP
// boundary before a Filter is built.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type kind int

const (
	eq kind = iota
	contains
	dateFrom
	dateTo
)

type cond struct {
	kind  kind
	field string
	value string
	date  time.Time
}

// Filter is an AND-composed set of conditions over record fields.
// The zero value matches everything.
type Filter struct {
	conds []cond
}

func New() *Filter { return &Filter{} }

// Eq adds a case-sensitive exact-match condition.
func (f *Filter) Eq(field, value string) *Filter {
	f.conds = append(f.conds, cond{kind: eq, field: field, value: value})
	return f
}

// MaybeEq adds an exact-match condition unless value is empty or the
// legacy "All" sentinel, which both mean "no filter".
func (f *Filter) MaybeEq(field, value string) *Filter {
	if value == "" || value == "All" {
		return f
	}
	return f.Eq(field, value)
}

// Contains adds a case-insensitive substring condition.
func (f *Filter) Contains(field, value string) *Filter {
	f.conds = append(f.conds, cond{kind: contains, field: field, value: strings.ToLower(value)})
	return f
}

// MaybeContains adds a substring condition unless value is empty.
func (f *Filter) MaybeContains(field, value string) *Filter {
	if strings.TrimSpace(value) == "" {
		return f
	}
	return f.Contains(field, value)
}

// DateFrom adds an inclusive lower bound on a YYYY-MM-DD date field.
// An unparsable bound is ignored.
func (f *Filter) DateFrom(field, value string) *Filter {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return f
	}
	f.conds = append(f.conds, cond{kind: dateFrom, field: field, date: t})
	return f
}

// DateTo adds an inclusive upper bound on a YYYY-MM-DD date field.
func (f *Filter) DateTo(field, value string) *Filter {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return f
	}
	f.conds = append(f.conds, cond{kind: dateTo, field: field, date: t})
	return f
}

// Empty reports whether the filter has no conditions.
func (f *Filter) Empty() bool { return f == nil || len(f.conds) == 0 }

// Match evaluates all conditions against a record's field map. A field
// absent from the map is treated as the empty string.
func (f *Filter) Match(fields map[string]string) bool {
	if f == nil {
		return true
	}
	for _, c := range f.conds {
		v := fields[c.field]
		switch c.kind {
		case eq:
			if v != c.value {
				return false
			}
		case contains:
			if !strings.Contains(strings.ToLower(v), c.value) {
				return false
			}
		case dateFrom, dateTo:
			// Only the date part matters; timestamps carry "date time".
			if i := strings.IndexByte(v, ' '); i >= 0 {
				v = v[:i]
			}
			d, err := time.Parse("2006-01-02", v)
			if err != nil {
				return false
			}
			if c.kind == dateFrom && d.Before(c.date) {
				return false
			}
			if c.kind == dateTo && d.After(c.date) {
				return false
			}
		}
	}
	return true
}

// Fields flattens a record into its JSON field map with every value
// rendered as a string, so filters can address fields by their wire names.
func Fields(rec any) map[string]string {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			// json numbers; render ints without a decimal point
			if t == float64(int64(t)) {
				out[k] = fmt.Sprintf("%d", int64(t))
			} else {
				out[k] = fmt.Sprintf("%v", t)
			}
		case bool:
			if t {
				out[k] = "true"
			} else {
				out[k] = "false"
			}
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out
}

// Apply returns the records matching f, preserving order.
func Apply[T any](recs []T, f *Filter) []T {
	if f.Empty() {
		return recs
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if f.Match(Fields(r)) {
			out = append(out, r)
		}
	}
	return out
}
