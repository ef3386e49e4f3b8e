package query

import "github.com/yakoovad/teamquery/internal/model"

type slot uint8

const (
	memberSlot slot = 1 << iota
	teamSlot
)

// slotMask is a set of slots referenced or bound by a query part.
type slotMask uint8

func (m slotMask) has(s slot) bool {
	return m&slotMask(s) != 0
}

func (s slot) String() string {
	switch s {
	case memberSlot:
		return "member"
	case teamSlot:
		return "team"
	default:
		return "unknown"
	}
}

var allSlots = []slot{memberSlot, teamSlot}

// Row is one candidate result row. A nil slot is either unbound or
// null-extended by a left outer join.
type Row struct {
	member *model.Member
	team   *model.Team
}

func (r Row) with(s slot, v any) Row {
	switch s {
	case memberSlot:
		r.member, _ = v.(*model.Member)
	case teamSlot:
		r.team, _ = v.(*model.Team)
	}
	return r
}

// group is the unit ordering, paging and projection work on. Ungrouped
// queries produce one single-row group per row.
type group []Row

func (g group) first() (Row, bool) {
	if len(g) == 0 {
		return Row{}, false
	}
	return g[0], true
}
