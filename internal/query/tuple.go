package query

import (
	"fmt"
	"strings"
)

// Tuple is one row of a Select projection. NULL values are stored as nil,
// entities as pointers to copies (*model.Member, *model.Team).
type Tuple struct {
	labels []string
	values []any
}

// Get returns the value of the projection p, or nil if p is NULL or was not
// selected.
func (t Tuple) Get(p Projection) any {
	name := p.String()
	for i, l := range t.labels {
		if l == name {
			return t.values[i]
		}
	}
	return nil
}

// At returns the i-th selected value.
func (t Tuple) At(i int) any {
	return t.values[i]
}

func (t Tuple) Size() int {
	return len(t.values)
}

func (t Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		if v == nil {
			parts[i] = t.labels[i] + "=null"
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", t.labels[i], v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Value returns the projection's value converted to T. ok is false for
// NULL or a type mismatch.
func Value[T any](t Tuple, p Projection) (v T, ok bool) {
	v, ok = t.Get(p).(T)
	return v, ok
}
