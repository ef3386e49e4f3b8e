package query

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/internal/store"
)

// crossProduct binds every root of the from clause, starting from a single
// empty row.
func crossProduct(s *store.Snapshot, roots []Root) []Row {
	rows := []Row{{}}
	for _, root := range roots {
		sl := root.rootSlot()
		records := entities(s, sl)
		next := make([]Row, 0, len(rows)*len(records))
		for _, r := range rows {
			for _, rec := range records {
				next = append(next, r.with(sl, rec))
			}
		}
		rows = next
	}
	return rows
}

// applyJoin extends each row with the records the join relates to it. An
// inner join drops rows with no candidate passing on; a left join keeps them
// with the target slot null-extended.
func (f *Factory) applyJoin(s *store.Snapshot, rows []Row, j join) ([]Row, error) {
	to := j.target()
	var records []any
	if j.assoc == nil {
		records = entities(s, to)
	}
	res := make([]Row, 0, len(rows))
	for _, r := range rows {
		candidates := records
		if j.assoc != nil {
			related, err := j.assoc.related(s, r)
			switch {
			case errors.Is(err, store.ErrDanglingReference):
				f.log.Warn("treating dangling reference as absent",
					zap.String("association", j.assoc.name),
					zap.Error(err),
				)
				related = nil
			case err != nil:
				return nil, errors.Wrapf(err, "resolve %s", j.assoc.name)
			}
			candidates = related
		}

		matched := false
		for _, rec := range candidates {
			next := r.with(to, rec)
			if j.on.eval(next) == truthy {
				res = append(res, next)
				matched = true
			}
		}
		if !matched && j.kind == leftJoin {
			res = append(res, r.with(to, nil))
		}
	}
	return res, nil
}
