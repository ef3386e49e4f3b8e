package store

import (
	"github.com/pkg/errors"
	"github.com/yakoovad/teamquery/internal/model"
)

// Snapshot is an immutable view of the store at one point in time. The
// slices it hands out must not be modified.
type Snapshot struct {
	teams   []model.Team
	members []model.Member

	teamIndex     map[int64]int
	membersByTeam map[int64][]int
}

func newSnapshot(teams []model.Team, members []model.Member) *Snapshot {
	s := &Snapshot{
		teams:         teams,
		members:       members,
		teamIndex:     make(map[int64]int, len(teams)),
		membersByTeam: make(map[int64][]int),
	}
	for i, t := range teams {
		s.teamIndex[t.ID] = i
	}
	for i, m := range members {
		if m.TeamID != nil {
			s.membersByTeam[*m.TeamID] = append(s.membersByTeam[*m.TeamID], i)
		}
	}
	return s
}

// Teams returns teams in insertion order.
func (s *Snapshot) Teams() []model.Team {
	return s.teams
}

// Members returns members in insertion order.
func (s *Snapshot) Members() []model.Member {
	return s.members
}

// TeamOf resolves a member's team reference. It returns nil for an
// unaffiliated member and ErrDanglingReference when the team is missing.
func (s *Snapshot) TeamOf(m *model.Member) (*model.Team, error) {
	if m.TeamID == nil {
		return nil, nil
	}
	i, ok := s.teamIndex[*m.TeamID]
	if !ok {
		return nil, errors.Wrapf(ErrDanglingReference, "member %d references team %d", m.ID, *m.TeamID)
	}
	return &s.teams[i], nil
}

// MembersOf returns the members referencing the team, in insertion order.
func (s *Snapshot) MembersOf(t *model.Team) []*model.Member {
	idx := s.membersByTeam[t.ID]
	res := make([]*model.Member, 0, len(idx))
	for _, i := range idx {
		res = append(res, &s.members[i])
	}
	return res
}
