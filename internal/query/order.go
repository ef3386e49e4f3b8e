package query

import "cmp"

type NullHandling int

const (
	// NullsDefault places nulls last in both directions.
	NullsDefault NullHandling = iota
	NullsFirst
	NullsLast
)

// OrderSpecifier is one key of an order by clause.
type OrderSpecifier struct {
	name  string
	desc  bool
	nulls NullHandling
	refs  slotMask
	key   func(g group) (any, bool)
	cmp   func(a, b any) int
}

func orderOf[T cmp.Ordered](name string, refs slotMask, key func(g group) (T, bool), desc bool) OrderSpecifier {
	return OrderSpecifier{
		name: name,
		desc: desc,
		refs: refs,
		key: func(g group) (any, bool) {
			v, ok := key(g)
			return v, ok
		},
		cmp: func(a, b any) int {
			return cmp.Compare(a.(T), b.(T))
		},
	}
}

func (o OrderSpecifier) NullsFirst() OrderSpecifier {
	o.nulls = NullsFirst
	return o
}

func (o OrderSpecifier) NullsLast() OrderSpecifier {
	o.nulls = NullsLast
	return o
}

func (o OrderSpecifier) String() string {
	s := o.name + " asc"
	if o.desc {
		s = o.name + " desc"
	}
	switch o.nulls {
	case NullsFirst:
		s += " nulls first"
	case NullsLast:
		s += " nulls last"
	}
	return s
}

func (o OrderSpecifier) compare(a, b group) int {
	av, aok := o.key(a)
	bv, bok := o.key(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		if o.nulls == NullsFirst {
			return -1
		}
		return 1
	case !bok:
		if o.nulls == NullsFirst {
			return 1
		}
		return -1
	}
	c := o.cmp(av, bv)
	if o.desc {
		return -c
	}
	return c
}

func compareGroups(specs []OrderSpecifier) func(a, b group) int {
	return func(a, b group) int {
		for _, o := range specs {
			if c := o.compare(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}
