package query

import (
	"cmp"
	"fmt"
	"strings"
)

// Expression is a typed scalar evaluated against a row. ok is false when
// the value is NULL.
type Expression[T cmp.Ordered] interface {
	eval(r Row) (v T, ok bool)
	mask() slotMask
	String() string
}

// Projection is anything that can appear in a select list or group by.
type Projection interface {
	project(g group) any
	isAggregate() bool
	mask() slotMask
	String() string
}

type constant[T cmp.Ordered] struct {
	v T
}

// Const wraps a literal so it can be used where an expression is expected.
func Const[T cmp.Ordered](v T) Expression[T] {
	return constant[T]{v: v}
}

func (c constant[T]) eval(Row) (T, bool) {
	return c.v, true
}

func (constant[T]) mask() slotMask {
	return 0
}

func (c constant[T]) String() string {
	return literal(c.v)
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return fmt.Sprint(v)
}
