package query

import "cmp"

// Aggregate is an aggregate function over the rows of a group. Count
// variants always yield an int64; Sum and Avg yield an int64 or NULL for an
// empty input; Max and Min yield the field's type or NULL.
type Aggregate struct {
	name    string
	refs    slotMask
	compute func(g group) (any, bool)
	cmp     func(a, b any) int
}

func (a Aggregate) project(g group) any {
	v, ok := a.compute(g)
	if !ok {
		return nil
	}
	return v
}

func (Aggregate) isAggregate() bool      { return true }
func (a Aggregate) mask() slotMask       { return a.refs }
func (a Aggregate) String() string       { return a.name }
func (a Aggregate) Asc() OrderSpecifier  { return a.order(false) }
func (a Aggregate) Desc() OrderSpecifier { return a.order(true) }

func (a Aggregate) order(desc bool) OrderSpecifier {
	return OrderSpecifier{name: a.name, desc: desc, refs: a.refs, key: a.compute, cmp: a.cmp}
}

func compareInt64(a, b any) int {
	return cmp.Compare(a.(int64), b.(int64))
}

func countOf(name string, refs slotMask, present func(r Row) bool) Aggregate {
	return Aggregate{
		name: name,
		refs: refs,
		compute: func(g group) (any, bool) {
			var n int64
			for _, r := range g {
				if present(r) {
					n++
				}
			}
			return n, true
		},
		cmp: compareInt64,
	}
}

func countDistinctOf[T cmp.Ordered](p Path[T]) Aggregate {
	return Aggregate{
		name: "count(distinct " + p.name + ")",
		refs: p.mask(),
		compute: func(g group) (any, bool) {
			seen := make(map[T]struct{})
			for _, r := range g {
				if v, ok := p.get(r); ok {
					seen[v] = struct{}{}
				}
			}
			return int64(len(seen)), true
		},
		cmp: compareInt64,
	}
}

func sumOf(p Path[int64]) Aggregate {
	return Aggregate{
		name: "sum(" + p.name + ")",
		refs: p.mask(),
		compute: func(g group) (any, bool) {
			sum, n := total(p, g)
			return sum, n > 0
		},
		cmp: compareInt64,
	}
}

func avgOf(p Path[int64]) Aggregate {
	return Aggregate{
		name: "avg(" + p.name + ")",
		refs: p.mask(),
		compute: func(g group) (any, bool) {
			sum, n := total(p, g)
			if n == 0 {
				return nil, false
			}
			return sum / n, true
		},
		cmp: compareInt64,
	}
}

func total(p Path[int64], g group) (sum, n int64) {
	for _, r := range g {
		if v, ok := p.get(r); ok {
			sum += v
			n++
		}
	}
	return sum, n
}

// extremeOf builds max (sign 1) or min (sign -1).
func extremeOf[T cmp.Ordered](p Path[T], fn string, sign int) Aggregate {
	return Aggregate{
		name: fn + "(" + p.name + ")",
		refs: p.mask(),
		compute: func(g group) (any, bool) {
			var best T
			found := false
			for _, r := range g {
				v, ok := p.get(r)
				if !ok {
					continue
				}
				if !found || cmp.Compare(v, best)*sign > 0 {
					best, found = v, true
				}
			}
			if !found {
				return nil, false
			}
			return best, true
		},
		cmp: func(a, b any) int {
			return cmp.Compare(a.(T), b.(T))
		},
	}
}
