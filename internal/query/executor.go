package query

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/pkg/errors"

	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/store"
)

// Fetch returns all matching results, or an empty slice.
func (q Query[T]) Fetch() (res []T, err error) {
	start := time.Now()
	defer func() { q.f.done("fetch", q.String(), start, len(res), err) }()

	groups, _, err := q.f.evaluate(q.f.src.Snapshot(), q.plan, true)
	if err != nil {
		return nil, err
	}
	return q.projectAll(groups), nil
}

// FetchOne returns the single matching result. The value is null when
// nothing matches; more than one match returns ErrNonUniqueResult.
func (q Query[T]) FetchOne() (res null.Val[T], err error) {
	start := time.Now()
	var groups []group
	defer func() { q.f.done("fetchOne", q.String(), start, len(groups), err) }()

	groups, _, err = q.f.evaluate(q.f.src.Snapshot(), q.plan, true)
	if err != nil {
		return null.Val[T]{}, err
	}
	switch len(groups) {
	case 0:
		return null.Val[T]{}, nil
	case 1:
		return null.From(q.project(groups[0])), nil
	default:
		return null.Val[T]{}, errors.Wrapf(ErrNonUniqueResult, "%d rows", len(groups))
	}
}

// FetchFirst is Limit(1).FetchOne.
func (q Query[T]) FetchFirst() (null.Val[T], error) {
	return q.Limit(1).FetchOne()
}

// FetchCount returns the number of matching results, ignoring paging.
func (q Query[T]) FetchCount() (n int64, err error) {
	start := time.Now()
	defer func() { q.f.done("fetchCount", q.String(), start, 1, err) }()

	_, total, err := q.f.evaluate(q.f.src.Snapshot(), q.plan, false)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// FetchResults returns one page and the total count. The count and the page
// are two evaluations over the same snapshot, both run even when the count
// is zero.
func (q Query[T]) FetchResults() (res QueryResults[T], err error) {
	start := time.Now()
	defer func() { q.f.done("fetchResults", q.String(), start, len(res.Results), err) }()

	snap := q.f.src.Snapshot()
	_, total, err := q.f.evaluate(snap, q.plan, false)
	if err != nil {
		return QueryResults[T]{}, err
	}
	limit := int64(math.MaxInt64)
	if q.plan.hasLimit {
		limit = q.plan.limit
	}
	groups, _, err := q.f.evaluate(snap, q.plan, true)
	if err != nil {
		return QueryResults[T]{}, err
	}
	return QueryResults[T]{Results: q.projectAll(groups), Total: total, Offset: q.plan.offset, Limit: limit}, nil
}

func (q Query[T]) projectAll(groups []group) []T {
	res := make([]T, 0, len(groups))
	for _, g := range groups {
		res = append(res, q.project(g))
	}
	return res
}

// evaluate runs the pipeline: sources, joins, where, grouping, ordering and,
// if paged, offset and limit. total is the number of groups before paging.
func (f *Factory) evaluate(s *store.Snapshot, sp plan, paged bool) (groups []group, total int64, err error) {
	if err := validate(sp); err != nil {
		return nil, 0, err
	}

	rows := crossProduct(s, sp.from)
	for _, j := range sp.joins {
		if rows, err = f.applyJoin(s, rows, j); err != nil {
			return nil, 0, err
		}
	}
	if !sp.where.IsZero() {
		rows = slices.DeleteFunc(rows, func(r Row) bool {
			return sp.where.eval(r) != truthy
		})
	}

	groups = partition(rows, sp)
	if len(sp.orderBy) > 0 {
		slices.SortStableFunc(groups, compareGroups(sp.orderBy))
	}
	total = int64(len(groups))
	if paged {
		groups = page(groups, sp)
	}
	return groups, total, nil
}

// partition splits rows into groups. With group by keys, groups appear in
// order of first appearance. Without keys, an aggregate select folds all
// rows into one group, even when there are none.
func partition(rows []Row, sp plan) []group {
	if len(sp.groupBy) == 0 {
		if hasAggregate(sp.projections) {
			return []group{group(rows)}
		}
		groups := make([]group, len(rows))
		for i, r := range rows {
			groups[i] = group{r}
		}
		return groups
	}

	var groups []group
	index := make(map[string]int)
	for _, r := range rows {
		k := groupKey(sp.groupBy, r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}

// groupKey encodes the key values of r. Every segment is self-delimiting
// (strings are quoted), so distinct key tuples never share an encoding.
func groupKey(keys []Projection, r Row) string {
	var b strings.Builder
	for _, k := range keys {
		switch v := k.project(group{r}).(type) {
		case nil:
			b.WriteString("null")
		case string:
			b.WriteString(strconv.Quote(v))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case *model.Member:
			fmt.Fprintf(&b, "member#%d", v.ID)
		case *model.Team:
			fmt.Fprintf(&b, "team#%d", v.ID)
		default:
			fmt.Fprintf(&b, "%T:%q", v, fmt.Sprint(v))
		}
		b.WriteByte(',')
	}
	return b.String()
}

func page(groups []group, sp plan) []group {
	if sp.offset >= int64(len(groups)) {
		return nil
	}
	groups = groups[sp.offset:]
	if sp.hasLimit && sp.limit < int64(len(groups)) {
		groups = groups[:sp.limit]
	}
	return groups
}

func hasAggregate(ps []Projection) bool {
	return slices.ContainsFunc(ps, Projection.isAggregate)
}

// validate checks a query before evaluation. The first construction error
// wins over anything found here.
func validate(sp plan) error {
	if sp.err != nil {
		return sp.err
	}
	if len(sp.from) == 0 {
		return ErrNoSource
	}
	if len(sp.projections) == 0 {
		return errors.Wrap(ErrInvalidProjection, "empty select list")
	}

	bound := slotMask(0)
	for _, r := range sp.from {
		bound |= slotMask(r.rootSlot())
	}
	for _, j := range sp.joins {
		bound |= slotMask(j.target())
		if err := checkBound(bound, j.on.mask(), "on "+j.on.String()); err != nil {
			return err
		}
	}
	if err := checkBound(bound, sp.where.mask(), "where "+sp.where.String()); err != nil {
		return err
	}
	for _, p := range slices.Concat(sp.projections, sp.groupBy) {
		if err := checkBound(bound, p.mask(), p.String()); err != nil {
			return err
		}
	}
	for _, o := range sp.orderBy {
		if err := checkBound(bound, o.refs, o.String()); err != nil {
			return err
		}
	}

	if len(sp.groupBy) == 0 {
		plain := slices.ContainsFunc(sp.projections, func(p Projection) bool { return !p.isAggregate() })
		if plain && hasAggregate(sp.projections) {
			return errors.Wrap(ErrInvalidProjection, "aggregates mixed with columns require group by")
		}
		return nil
	}
	keys := make(map[string]struct{}, len(sp.groupBy))
	for _, k := range sp.groupBy {
		if k.isAggregate() {
			return errors.Wrapf(ErrInvalidProjection, "cannot group by %s", k)
		}
		keys[k.String()] = struct{}{}
	}
	for _, p := range sp.projections {
		if _, ok := keys[p.String()]; !ok && !p.isAggregate() {
			return errors.Wrapf(ErrInvalidProjection, "%s is neither aggregated nor grouped", p)
		}
	}
	return nil
}

func checkBound(bound, refs slotMask, what string) error {
	for _, sl := range allSlots {
		if refs.has(sl) && !bound.has(sl) {
			return errors.Wrapf(ErrUnboundPath, "%s: %s", what, sl)
		}
	}
	return nil
}
