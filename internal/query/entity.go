package query

import (
	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/store"
)

// Root is an entity that can appear in from, or as the target of a theta join.
type Root interface {
	rootSlot() slot
	String() string
}

// Entity is a root that can also be selected whole.
type Entity[T any] interface {
	Root
	Projection
	value(r Row) (T, bool)
}

// JoinTarget is either a declared Association or a Root for theta joins.
type JoinTarget interface {
	joinTarget()
}

// Association is a declared relationship between two entities.
type Association struct {
	name     string
	from, to slot
	related  func(s *store.Snapshot, r Row) ([]any, error)
}

func (a Association) String() string {
	return a.name
}

func (Association) joinTarget() {}

type MemberEntity struct {
	ID       NumberPath
	Username StringPath
	Age      NumberPath
	// Team is the many-to-one association to the member's team.
	Team Association
}

type TeamEntity struct {
	ID   NumberPath
	Name StringPath
	// Members is the one-to-many back-reference; joining it yields one row
	// per member of the team.
	Members Association
}

var Member = MemberEntity{
	ID: NumberPath{Path[int64]{root: memberSlot, name: "member.id", get: func(r Row) (int64, bool) {
		if r.member == nil {
			return 0, false
		}
		return r.member.ID, true
	}}},
	Username: StringPath{Path[string]{root: memberSlot, name: "member.username", get: func(r Row) (string, bool) {
		if r.member == nil || r.member.Username == nil {
			return "", false
		}
		return *r.member.Username, true
	}}},
	Age: NumberPath{Path[int64]{root: memberSlot, name: "member.age", get: func(r Row) (int64, bool) {
		if r.member == nil {
			return 0, false
		}
		return int64(r.member.Age), true
	}}},
	Team: Association{name: "member.team", from: memberSlot, to: teamSlot, related: memberTeam},
}

var Team = TeamEntity{
	ID: NumberPath{Path[int64]{root: teamSlot, name: "team.id", get: func(r Row) (int64, bool) {
		if r.team == nil {
			return 0, false
		}
		return r.team.ID, true
	}}},
	Name: StringPath{Path[string]{root: teamSlot, name: "team.name", get: func(r Row) (string, bool) {
		if r.team == nil {
			return "", false
		}
		return r.team.Name, true
	}}},
	Members: Association{name: "team.members", from: teamSlot, to: memberSlot, related: teamMembers},
}

func memberTeam(s *store.Snapshot, r Row) ([]any, error) {
	if r.member == nil {
		return nil, nil
	}
	t, err := s.TeamOf(r.member)
	if err != nil || t == nil {
		return nil, err
	}
	return []any{t}, nil
}

func teamMembers(s *store.Snapshot, r Row) ([]any, error) {
	if r.team == nil {
		return nil, nil
	}
	members := s.MembersOf(r.team)
	res := make([]any, len(members))
	for i, m := range members {
		res[i] = m
	}
	return res, nil
}

func (MemberEntity) rootSlot() slot    { return memberSlot }
func (MemberEntity) String() string    { return "member" }
func (MemberEntity) joinTarget()       {}
func (MemberEntity) isAggregate() bool { return false }
func (MemberEntity) mask() slotMask    { return slotMask(memberSlot) }

func (MemberEntity) value(r Row) (model.Member, bool) {
	if r.member == nil {
		return model.Member{}, false
	}
	return *r.member, true
}

// project yields a *model.Member copy, or nil for a null-extended row.
func (e MemberEntity) project(g group) any {
	r, _ := g.first()
	m, ok := e.value(r)
	if !ok {
		return nil
	}
	return &m
}

// Count counts rows with a member bound, skipping null-extended ones.
func (MemberEntity) Count() Aggregate {
	return countOf("count(member)", slotMask(memberSlot), func(r Row) bool { return r.member != nil })
}

func (TeamEntity) rootSlot() slot    { return teamSlot }
func (TeamEntity) String() string    { return "team" }
func (TeamEntity) joinTarget()       {}
func (TeamEntity) isAggregate() bool { return false }
func (TeamEntity) mask() slotMask    { return slotMask(teamSlot) }

func (TeamEntity) value(r Row) (model.Team, bool) {
	if r.team == nil {
		return model.Team{}, false
	}
	return *r.team, true
}

// project yields a *model.Team copy, or nil for a null-extended row.
func (e TeamEntity) project(g group) any {
	r, _ := g.first()
	t, ok := e.value(r)
	if !ok {
		return nil
	}
	return &t
}

func (TeamEntity) Count() Aggregate {
	return countOf("count(team)", slotMask(teamSlot), func(r Row) bool { return r.team != nil })
}

// entities lists every record of the slot's collection as row values.
func entities(s *store.Snapshot, sl slot) []any {
	switch sl {
	case memberSlot:
		ms := s.Members()
		res := make([]any, len(ms))
		for i := range ms {
			res[i] = &ms[i]
		}
		return res
	case teamSlot:
		ts := s.Teams()
		res := make([]any, len(ts))
		for i := range ts {
			res[i] = &ts[i]
		}
		return res
	default:
		return nil
	}
}
