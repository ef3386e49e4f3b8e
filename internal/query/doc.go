// Package query is a typed, fluent query engine over the in-memory team and
// member store.
//
// Queries are immutable values. Every builder method returns a new query,
// so a partially built query can be shared and extended:
//
//	qf := query.NewFactory(st, log)
//	base := query.SelectFrom(qf, query.Member).Where(query.Member.Age.Goe(20))
//	adults, err := base.OrderBy(query.Member.Username.Asc()).Fetch()
//	n, err := base.FetchCount()
//
// Evaluation follows SQL semantics. Comparisons against NULL are unknown and
// only rows whose predicate is true survive a filter. Nulls sort last unless
// NullsFirst is requested. Avg uses integer division.
//
// Each entity can be bound once per query: query.Member and query.Team name
// both the entity and its row slot. A join on query.Member.Team binds the
// team slot, after which query.Team paths refer to the joined team.
package query
