package query

import "github.com/pkg/errors"

var (
	// ErrNonUniqueResult is returned by FetchOne when more than one row matches.
	ErrNonUniqueResult = errors.New("query returned more than one row")
	// ErrInvalidJoin is recorded when a join cannot be built, e.g. an outer
	// join without a declared association.
	ErrInvalidJoin = errors.New("invalid join")
	// ErrInvalidPaging is recorded for a negative offset or limit.
	ErrInvalidPaging = errors.New("invalid paging")
	// ErrNoSource is returned when a query has nothing to select from.
	ErrNoSource = errors.New("query has no source")
	// ErrUnboundPath is returned when a path refers to an entity that is not
	// bound by from or join.
	ErrUnboundPath = errors.New("path references an unbound entity")
	// ErrInvalidProjection is returned for an empty select list, or when
	// aggregates are mixed with plain columns without a group by.
	ErrInvalidProjection = errors.New("invalid projection")
)
