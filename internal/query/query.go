package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// plan is the immutable description of a query. Builder methods copy it and
// append to clipped slices, so queries derived from a common base never share
// backing arrays.
type plan struct {
	from        []Root
	joins       []join
	where       Predicate
	groupBy     []Projection
	orderBy     []OrderSpecifier
	projections []Projection
	offset      int64
	limit       int64
	hasLimit    bool
	// err is the first construction error; terminal operations return it
	// before touching the store.
	err error
}

type joinKind int

const (
	innerJoin joinKind = iota
	leftJoin
)

func (k joinKind) String() string {
	if k == leftJoin {
		return "left join"
	}
	return "inner join"
}

// join binds a new entity slot, either through a declared association or,
// with assoc nil, as a theta join over every record of root.
type join struct {
	kind  joinKind
	assoc *Association
	root  Root
	on    Predicate
}

func (j join) target() slot {
	if j.assoc != nil {
		return j.assoc.to
	}
	return j.root.rootSlot()
}

func (j join) String() string {
	s := j.kind.String() + " "
	if j.assoc != nil {
		s += j.assoc.name
	} else {
		s += j.root.String()
	}
	if !j.on.IsZero() {
		s += " on " + j.on.String()
	}
	return s
}

func (s plan) bound() slotMask {
	var m slotMask
	for _, r := range s.from {
		m |= slotMask(r.rootSlot())
	}
	for _, j := range s.joins {
		m |= slotMask(j.target())
	}
	return m
}

// Query is an immutable query producing values of type T. Every builder
// method returns a new Query and leaves the receiver unchanged.
type Query[T any] struct {
	f       *Factory
	plan    plan
	project func(g group) T
}

// SelectFrom selects whole entities: SelectFrom(f, Member) yields
// model.Member values.
func SelectFrom[T any](f *Factory, e Entity[T]) Query[T] {
	return Query[T]{
		f: f,
		plan: plan{
			from:        []Root{e},
			projections: []Projection{e},
		},
		project: func(g group) T {
			r, _ := g.first()
			v, _ := e.value(r)
			return v
		},
	}
}

// Select selects a list of paths, aggregates or entities into tuples.
// A source must be added with From.
func Select(f *Factory, ps ...Projection) Query[Tuple] {
	return SelectAs(f, func(t Tuple) Tuple { return t }, ps...)
}

// SelectAs is Select with each tuple converted by fn, e.g. into a DTO.
func SelectAs[T any](f *Factory, fn func(t Tuple) T, ps ...Projection) Query[T] {
	ps = slices.Clip(slices.Clone(ps))
	labels := make([]string, len(ps))
	for i, p := range ps {
		labels[i] = p.String()
	}
	return Query[T]{
		f:    f,
		plan: plan{projections: ps},
		project: func(g group) T {
			values := make([]any, len(ps))
			for i, p := range ps {
				values[i] = p.project(g)
			}
			return fn(Tuple{labels: labels, values: values})
		},
	}
}

func (q Query[T]) fail(err error) Query[T] {
	if q.plan.err == nil {
		q.plan.err = err
	}
	return q
}

// From adds roots to the from clause. Several roots form a Cartesian
// product, which Where can filter into a theta join.
func (q Query[T]) From(roots ...Root) Query[T] {
	bound := q.plan.bound()
	for _, r := range roots {
		if bound.has(r.rootSlot()) {
			return q.fail(errors.Wrapf(ErrInvalidJoin, "%s is already bound", r))
		}
		bound |= slotMask(r.rootSlot())
	}
	q.plan.from = append(slices.Clip(q.plan.from), roots...)
	return q
}

// Join adds an inner join to an association (Member.Team, Team.Members) or,
// for a theta join, to a root entity that On then relates.
func (q Query[T]) Join(target JoinTarget) Query[T] {
	return q.join(innerJoin, target)
}

// LeftJoin adds a left outer join. Only declared associations can be outer
// joined; a root target records ErrInvalidJoin.
func (q Query[T]) LeftJoin(target JoinTarget) Query[T] {
	return q.join(leftJoin, target)
}

func (q Query[T]) join(kind joinKind, target JoinTarget) Query[T] {
	var j join
	switch t := target.(type) {
	case Association:
		if !q.plan.bound().has(t.from) {
			return q.fail(errors.Wrapf(ErrInvalidJoin, "%s: %s is not bound", t.name, t.from))
		}
		j = join{kind: kind, assoc: &t}
	case Root:
		if kind == leftJoin {
			return q.fail(errors.Wrapf(ErrInvalidJoin, "left join %s: outer joins need a declared association", t))
		}
		j = join{kind: kind, root: t}
	default:
		return q.fail(errors.Wrapf(ErrInvalidJoin, "unsupported join target %T", target))
	}
	if q.plan.bound().has(j.target()) {
		return q.fail(errors.Wrapf(ErrInvalidJoin, "%s is already bound", j.target()))
	}
	q.plan.joins = append(slices.Clip(q.plan.joins), j)
	return q
}

// On adds conditions to the most recent join. For a left join, rows whose
// related records fail the condition are null-extended instead of dropped.
func (q Query[T]) On(preds ...Predicate) Query[T] {
	n := len(q.plan.joins)
	if n == 0 {
		return q.fail(errors.Wrap(ErrInvalidJoin, "on without a join"))
	}
	joins := slices.Clone(q.plan.joins)
	joins[n-1].on = joins[n-1].on.And(AllOf(preds...))
	q.plan.joins = joins
	return q
}

// Where adds conditions combined with and. Zero predicates are ignored.
func (q Query[T]) Where(preds ...Predicate) Query[T] {
	q.plan.where = q.plan.where.And(AllOf(preds...))
	return q
}

func (q Query[T]) GroupBy(keys ...Projection) Query[T] {
	q.plan.groupBy = append(slices.Clip(q.plan.groupBy), keys...)
	return q
}

func (q Query[T]) OrderBy(specs ...OrderSpecifier) Query[T] {
	q.plan.orderBy = append(slices.Clip(q.plan.orderBy), specs...)
	return q
}

func (q Query[T]) Offset(n int64) Query[T] {
	if n < 0 {
		return q.fail(errors.Wrapf(ErrInvalidPaging, "offset %d", n))
	}
	q.plan.offset = n
	return q
}

func (q Query[T]) Limit(n int64) Query[T] {
	if n < 0 {
		return q.fail(errors.Wrapf(ErrInvalidPaging, "limit %d", n))
	}
	q.plan.limit = n
	q.plan.hasLimit = true
	return q
}

// Err returns the first construction error, if any.
func (q Query[T]) Err() error {
	return q.plan.err
}

// String renders the query in a JPQL-like form for logs.
func (q Query[T]) String() string {
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(joinNames(q.plan.projections))
	if len(q.plan.from) > 0 {
		names := make([]string, len(q.plan.from))
		for i, r := range q.plan.from {
			names[i] = r.String()
		}
		b.WriteString(" from ")
		b.WriteString(strings.Join(names, ", "))
	}
	for _, j := range q.plan.joins {
		b.WriteString(" ")
		b.WriteString(j.String())
	}
	if !q.plan.where.IsZero() {
		b.WriteString(" where ")
		b.WriteString(q.plan.where.String())
	}
	if len(q.plan.groupBy) > 0 {
		b.WriteString(" group by ")
		b.WriteString(joinNames(q.plan.groupBy))
	}
	if len(q.plan.orderBy) > 0 {
		names := make([]string, len(q.plan.orderBy))
		for i, o := range q.plan.orderBy {
			names[i] = o.String()
		}
		b.WriteString(" order by ")
		b.WriteString(strings.Join(names, ", "))
	}
	if q.plan.offset > 0 {
		b.WriteString(" offset ")
		b.WriteString(strconv.FormatInt(q.plan.offset, 10))
	}
	if q.plan.hasLimit {
		b.WriteString(" limit ")
		b.WriteString(strconv.FormatInt(q.plan.limit, 10))
	}
	return b.String()
}

func joinNames(ps []Projection) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
