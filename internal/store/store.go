// Package store holds the append-only in-memory record store that queries
// are evaluated against.
package store

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/yakoovad/teamquery/internal/model"
)

// Store is an append-only collection of teams and members. Writes are
// serialized; readers work on immutable snapshots.
type Store struct {
	mu sync.RWMutex

	teams   []model.Team
	members []model.Member

	teamIDs   map[int64]struct{}
	memberIDs map[int64]struct{}

	nextTeamID   int64
	nextMemberID int64
}

func New() *Store {
	return &Store{
		teamIDs:      make(map[int64]struct{}),
		memberIDs:    make(map[int64]struct{}),
		nextTeamID:   1,
		nextMemberID: 1,
	}
}

// InsertTeam appends a team. A zero ID is replaced with the next free one.
func (s *Store) InsertTeam(t model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.addTeam(&t); err != nil {
		return model.Team{}, err
	}
	return t, nil
}

// InsertMember appends a member. The referenced team, if any, must already
// be in the store.
func (s *Store) InsertMember(m model.Member) (model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.TeamID != nil {
		if _, ok := s.teamIDs[*m.TeamID]; !ok {
			return model.Member{}, errors.Wrapf(ErrDanglingReference, "member references team %d", *m.TeamID)
		}
	}
	if err := s.addMember(&m); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// Load bulk-appends rows read from a backing database, keeping their IDs.
// References are not checked here; the join engine reports them at read time.
// Load is all or nothing: on error the store is left as it was.
func (s *Store) Load(teams []model.Team, members []model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nTeams, nMembers := len(s.teams), len(s.members)
	nextTeamID, nextMemberID := s.nextTeamID, s.nextMemberID

	err := s.load(teams, members)
	if err != nil {
		for _, t := range s.teams[nTeams:] {
			delete(s.teamIDs, t.ID)
		}
		for _, m := range s.members[nMembers:] {
			delete(s.memberIDs, m.ID)
		}
		s.teams, s.members = s.teams[:nTeams], s.members[:nMembers]
		s.nextTeamID, s.nextMemberID = nextTeamID, nextMemberID
	}
	return err
}

func (s *Store) load(teams []model.Team, members []model.Member) error {
	for i := range teams {
		if err := s.addTeam(&teams[i]); err != nil {
			return err
		}
	}
	for i := range members {
		if err := s.addMember(&members[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of stored teams and members.
func (s *Store) Len() (teams, members int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams), len(s.members)
}

// Snapshot returns a read-only view of the current contents.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newSnapshot(s.teams[:len(s.teams):len(s.teams)], s.members[:len(s.members):len(s.members)])
}

func (s *Store) addTeam(t *model.Team) error {
	if t.ID == 0 {
		t.ID = s.nextTeamID
	}
	if _, ok := s.teamIDs[t.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "team %d", t.ID)
	}
	s.teamIDs[t.ID] = struct{}{}
	s.teams = append(s.teams, *t)
	if t.ID >= s.nextTeamID {
		s.nextTeamID = t.ID + 1
	}
	return nil
}

func (s *Store) addMember(m *model.Member) error {
	if m.ID == 0 {
		m.ID = s.nextMemberID
	}
	if _, ok := s.memberIDs[m.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "member %d", m.ID)
	}
	s.memberIDs[m.ID] = struct{}{}
	s.members = append(s.members, *m)
	if m.ID >= s.nextMemberID {
		s.nextMemberID = m.ID + 1
	}
	return nil
}
