package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yakoovad/teamquery/internal/db"
	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
	"github.com/yakoovad/teamquery/pkg/logger"
)

// SeedTeams are the teams every seeded database starts with.
var SeedTeams = []string{"teamA", "teamB"}

// Seeder fills an empty database with sample data and loads the database
// into the record store.
type Seeder struct {
	tx db.Transactor

	teams   repository.TeamRepository
	members repository.MemberRepository
	store   *store.Store
}

func NewSeeder(tx db.Transactor) *Seeder {
	return &Seeder{tx: tx}
}

// Seed inserts teamA and teamB plus n members named member<i> with age i,
// alternating between the two teams, in one transaction. It does nothing
// when the database already has teams and reports whether it inserted.
func (s *Seeder) Seed(ctx context.Context, n int) (bool, error) {
	l := logger.FromContext(ctx)

	existing, err := s.teams.List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "list teams")
	}
	if len(existing) > 0 {
		l.Info("database already seeded", zap.Int("teams", len(existing)))
		return false, nil
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		teams := make([]*repository.Team, len(SeedTeams))
		for i, name := range SeedTeams {
			teams[i] = &repository.Team{Name: name}
			if err := s.teams.Create(txCtx, teams[i]); err != nil {
				return errors.Wrapf(err, "create team %s", name)
			}
		}

		members := make([]*repository.Member, n)
		for i := range n {
			username := fmt.Sprintf("member%d", i)
			members[i] = &repository.Member{
				Username: &username,
				Age:      i,
				TeamID:   &teams[i%len(teams)].ID,
			}
		}
		return s.members.CreateBatch(txCtx, members)
	})
	if err != nil {
		return false, err
	}

	l.Info("database seeded", zap.Int("teams", len(SeedTeams)), zap.Int("members", n))
	return true, nil
}

// Load reads every team and member from the database into the record store.
func (s *Seeder) Load(ctx context.Context) error {
	var (
		teams   []*repository.Team
		members []*repository.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = s.teams.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.members.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "read database")
	}

	ts := make([]model.Team, len(teams))
	for i, t := range teams {
		ts[i] = model.Team{ID: t.ID, Name: t.Name}
	}
	ms := make([]model.Member, len(members))
	for i, m := range members {
		ms[i] = model.Member{ID: m.ID, Username: m.Username, Age: m.Age, TeamID: m.TeamID}
	}
	if err := s.store.Load(ts, ms); err != nil {
		return errors.Wrap(err, "load store")
	}

	logger.FromContext(ctx).Info("record store loaded", zap.Int("teams", len(ts)), zap.Int("members", len(ms)))
	return nil
}

func (s *Seeder) WithTeamRepo(r repository.TeamRepository) *Seeder {
	s.teams = r
	return s
}

func (s *Seeder) WithMemberRepo(r repository.MemberRepository) *Seeder {
	s.members = r
	return s
}

func (s *Seeder) WithStore(st *store.Store) *Seeder {
	s.store = st
	return s
}
