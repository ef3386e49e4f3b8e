package query

// QueryResults is one page of results together with the total match count.
// Limit is math.MaxInt64 when the query had no limit.
type QueryResults[T any] struct {
	Results []T
	Total   int64
	Offset  int64
	Limit   int64
}

// IsEmpty reports whether the page holds no results.
func (r QueryResults[T]) IsEmpty() bool {
	return len(r.Results) == 0
}
