package query

import (
	"cmp"
	"slices"
	"strings"
)

// Predicate is a boolean condition over row fields. The zero Predicate
// means "no condition": Where skips it and And/Or return the other operand,
// which lets callers build dynamic filters from optional parts.
type Predicate struct {
	n node
}

type node interface {
	eval(r Row) truth
	mask() slotMask
	String() string
}

// AllOf joins predicates with and, skipping zero predicates.
func AllOf(preds ...Predicate) Predicate {
	var res Predicate
	for _, p := range preds {
		res = res.And(p)
	}
	return res
}

// AnyOf joins predicates with or, skipping zero predicates.
func AnyOf(preds ...Predicate) Predicate {
	var res Predicate
	for _, p := range preds {
		res = res.Or(p)
	}
	return res
}

func (p Predicate) IsZero() bool {
	return p.n == nil
}

func (p Predicate) And(o Predicate) Predicate {
	switch {
	case p.IsZero():
		return o
	case o.IsZero():
		return p
	}
	return Predicate{junction{and: true, left: p.n, right: o.n}}
}

func (p Predicate) Or(o Predicate) Predicate {
	switch {
	case p.IsZero():
		return o
	case o.IsZero():
		return p
	}
	return Predicate{junction{left: p.n, right: o.n}}
}

func (p Predicate) Not() Predicate {
	if p.IsZero() {
		return p
	}
	return Predicate{negation{n: p.n}}
}

func (p Predicate) String() string {
	if p.IsZero() {
		return ""
	}
	return p.n.String()
}

func (p Predicate) eval(r Row) truth {
	if p.IsZero() {
		return truthy
	}
	return p.n.eval(r)
}

func (p Predicate) mask() slotMask {
	if p.IsZero() {
		return 0
	}
	return p.n.mask()
}

type junction struct {
	and         bool
	left, right node
}

func (j junction) eval(r Row) truth {
	if j.and {
		return j.left.eval(r).and(j.right.eval(r))
	}
	return j.left.eval(r).or(j.right.eval(r))
}

func (j junction) mask() slotMask {
	return j.left.mask() | j.right.mask()
}

func (j junction) String() string {
	op := " or "
	if j.and {
		op = " and "
	}
	return "(" + j.left.String() + op + j.right.String() + ")"
}

type negation struct {
	n node
}

func (n negation) eval(r Row) truth { return n.n.eval(r).not() }
func (n negation) mask() slotMask   { return n.n.mask() }
func (n negation) String() string   { return "not " + n.n.String() }

type cmpOp int

const (
	opEq cmpOp = iota
	opNe
	opLt
	opLe
	opGt
	opGe
)

var cmpOpSymbols = [...]string{"=", "<>", "<", "<=", ">", ">="}

func (o cmpOp) String() string {
	return cmpOpSymbols[o]
}

func (o cmpOp) holds(c int) bool {
	switch o {
	case opEq:
		return c == 0
	case opNe:
		return c != 0
	case opLt:
		return c < 0
	case opLe:
		return c <= 0
	case opGt:
		return c > 0
	default:
		return c >= 0
	}
}

type comparison[T cmp.Ordered] struct {
	left  Expression[T]
	op    cmpOp
	right Expression[T]
}

func (c comparison[T]) eval(r Row) truth {
	l, ok := c.left.eval(r)
	if !ok {
		return unknown
	}
	rv, ok := c.right.eval(r)
	if !ok {
		return unknown
	}
	return truthOf(c.op.holds(cmp.Compare(l, rv)))
}

func (c comparison[T]) mask() slotMask {
	return c.left.mask() | c.right.mask()
}

func (c comparison[T]) String() string {
	return c.left.String() + " " + c.op.String() + " " + c.right.String()
}

type inList[T cmp.Ordered] struct {
	expr   Expression[T]
	values []T
	negate bool
}

func (in inList[T]) eval(r Row) truth {
	v, ok := in.expr.eval(r)
	if !ok {
		return unknown
	}
	return truthOf(slices.Contains(in.values, v) != in.negate)
}

func (in inList[T]) mask() slotMask {
	return in.expr.mask()
}

func (in inList[T]) String() string {
	parts := make([]string, len(in.values))
	for i, v := range in.values {
		parts[i] = literal(v)
	}
	op := " in "
	if in.negate {
		op = " not in "
	}
	return in.expr.String() + op + "(" + strings.Join(parts, ", ") + ")"
}

type between[T cmp.Ordered] struct {
	expr   Expression[T]
	lo, hi T
}

func (b between[T]) eval(r Row) truth {
	v, ok := b.expr.eval(r)
	if !ok {
		return unknown
	}
	return truthOf(cmp.Compare(v, b.lo) >= 0 && cmp.Compare(v, b.hi) <= 0)
}

func (b between[T]) mask() slotMask {
	return b.expr.mask()
}

func (b between[T]) String() string {
	return b.expr.String() + " between " + literal(b.lo) + " and " + literal(b.hi)
}

type nullCheck[T cmp.Ordered] struct {
	expr     Expression[T]
	wantNull bool
}

func (n nullCheck[T]) eval(r Row) truth {
	_, ok := n.expr.eval(r)
	return truthOf(ok != n.wantNull)
}

func (n nullCheck[T]) mask() slotMask {
	return n.expr.mask()
}

func (n nullCheck[T]) String() string {
	if n.wantNull {
		return n.expr.String() + " is null"
	}
	return n.expr.String() + " is not null"
}

type stringMatch struct {
	expr  Expression[string]
	label string
	fn    func(string) bool
}

func (m stringMatch) eval(r Row) truth {
	v, ok := m.expr.eval(r)
	if !ok {
		return unknown
	}
	return truthOf(m.fn(v))
}

func (m stringMatch) mask() slotMask {
	return m.expr.mask()
}

func (m stringMatch) String() string {
	return m.expr.String() + " " + m.label
}
