package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Path is a typed field of a bound entity, e.g. member.age.
type Path[T cmp.Ordered] struct {
	root slot
	name string
	get  func(r Row) (T, bool)
}

func (p Path[T]) eval(r Row) (T, bool) {
	return p.get(r)
}

func (p Path[T]) mask() slotMask {
	return slotMask(p.root)
}

func (p Path[T]) String() string {
	return p.name
}

func (p Path[T]) project(g group) any {
	r, ok := g.first()
	if !ok {
		return nil
	}
	v, ok := p.get(r)
	if !ok {
		return nil
	}
	return v
}

func (Path[T]) isAggregate() bool {
	return false
}

func (p Path[T]) first(g group) (T, bool) {
	r, ok := g.first()
	if !ok {
		var zero T
		return zero, false
	}
	return p.get(r)
}

func (p Path[T]) Eq(v T) Predicate  { return p.EqExpr(constant[T]{v: v}) }
func (p Path[T]) Ne(v T) Predicate  { return p.NeExpr(constant[T]{v: v}) }
func (p Path[T]) Lt(v T) Predicate  { return p.compare(opLt, constant[T]{v: v}) }
func (p Path[T]) Loe(v T) Predicate { return p.compare(opLe, constant[T]{v: v}) }
func (p Path[T]) Gt(v T) Predicate  { return p.compare(opGt, constant[T]{v: v}) }
func (p Path[T]) Goe(v T) Predicate { return p.compare(opGe, constant[T]{v: v}) }

// EqExpr compares against another expression, typically a path of a
// different entity in a theta join.
func (p Path[T]) EqExpr(e Expression[T]) Predicate { return p.compare(opEq, e) }
func (p Path[T]) NeExpr(e Expression[T]) Predicate { return p.compare(opNe, e) }

func (p Path[T]) compare(op cmpOp, e Expression[T]) Predicate {
	return Predicate{comparison[T]{left: p, op: op, right: e}}
}

func (p Path[T]) In(values ...T) Predicate {
	return Predicate{inList[T]{expr: p, values: slices.Clone(values)}}
}

func (p Path[T]) NotIn(values ...T) Predicate {
	return Predicate{inList[T]{expr: p, values: slices.Clone(values), negate: true}}
}

// Between is inclusive on both ends.
func (p Path[T]) Between(lo, hi T) Predicate {
	return Predicate{between[T]{expr: p, lo: lo, hi: hi}}
}

func (p Path[T]) IsNull() Predicate {
	return Predicate{nullCheck[T]{expr: p, wantNull: true}}
}

func (p Path[T]) IsNotNull() Predicate {
	return Predicate{nullCheck[T]{expr: p}}
}

func (p Path[T]) Asc() OrderSpecifier {
	return orderOf(p.name, p.mask(), p.first, false)
}

func (p Path[T]) Desc() OrderSpecifier {
	return orderOf(p.name, p.mask(), p.first, true)
}

// Count counts non-null values.
func (p Path[T]) Count() Aggregate {
	return countOf("count("+p.name+")", p.mask(), func(r Row) bool {
		_, ok := p.get(r)
		return ok
	})
}

func (p Path[T]) CountDistinct() Aggregate {
	return countDistinctOf(p)
}

func (p Path[T]) Max() Aggregate {
	return extremeOf(p, "max", 1)
}

func (p Path[T]) Min() Aggregate {
	return extremeOf(p, "min", -1)
}

// StringPath adds pattern matching to string fields.
type StringPath struct {
	Path[string]
}

// Like matches an SQL LIKE pattern: % is any run of characters, _ is one.
func (p StringPath) Like(pattern string) Predicate {
	return p.match("like "+literal(pattern), func(s string) bool { return likeMatch(s, pattern) })
}

func (p StringPath) NotLike(pattern string) Predicate {
	return p.match("not like "+literal(pattern), func(s string) bool { return !likeMatch(s, pattern) })
}

func (p StringPath) StartsWith(prefix string) Predicate {
	return p.match("like "+literal(prefix+"%"), func(s string) bool { return strings.HasPrefix(s, prefix) })
}

func (p StringPath) EndsWith(suffix string) Predicate {
	return p.match("like "+literal("%"+suffix), func(s string) bool { return strings.HasSuffix(s, suffix) })
}

func (p StringPath) Contains(sub string) Predicate {
	return p.match("like "+literal("%"+sub+"%"), func(s string) bool { return strings.Contains(s, sub) })
}

func (p StringPath) EqualsIgnoreCase(v string) Predicate {
	want := fold(v)
	return p.match("equals ignore case "+literal(v), func(s string) bool { return fold(s) == want })
}

func (p StringPath) ContainsIgnoreCase(sub string) Predicate {
	want := fold(sub)
	return p.match("contains ignore case "+literal(sub), func(s string) bool { return strings.Contains(fold(s), want) })
}

func (p StringPath) match(label string, fn func(string) bool) Predicate {
	return Predicate{stringMatch{expr: p.Path, label: label, fn: fn}}
}

// fold builds a fresh Caser on every call: a Caser must not be shared
// between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// NumberPath adds arithmetic aggregates to integer fields.
type NumberPath struct {
	Path[int64]
}

func (p NumberPath) Sum() Aggregate {
	return sumOf(p.Path)
}

// Avg truncates toward zero, matching integer AVG over an integer column.
func (p NumberPath) Avg() Aggregate {
	return avgOf(p.Path)
}
