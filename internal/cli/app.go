package cli

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/config"
	"github.com/yakoovad/teamquery/internal/metrics"
	"github.com/yakoovad/teamquery/internal/query"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/service"
	"github.com/yakoovad/teamquery/internal/store"
)

// app is the wired object graph shared by serve and search.
type app struct {
	backend *repository.Backend
	store   *store.Store
	qf      *query.Factory

	team   *service.TeamService
	member *service.MemberService
}

// newApp opens storage, seeds it when enabled and loads it into a fresh
// record store.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	backend, err := repository.Open(ctx, cfg.Storage, log)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}

	st := store.New()
	seeder := service.NewSeeder(backend.Transactor).
		WithTeamRepo(backend.Teams).
		WithMemberRepo(backend.Members).
		WithStore(st)

	if cfg.Seed.Enabled {
		if _, err = seeder.Seed(ctx, cfg.Seed.Members); err != nil {
			backend.Close()
			return nil, errors.Wrap(err, "seed storage")
		}
	}
	if err = seeder.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}
	metrics.SetStoreSize(st.Len())

	qf := query.NewFactory(st, log).WithObserver(metrics.ObserveQuery)

	return &app{
		backend: backend,
		store:   st,
		qf:      qf,
		team: service.NewTeamService(backend.Transactor).
			WithTeamRepo(backend.Teams).
			WithStore(st).
			WithQueryFactory(qf),
		member: service.NewMemberService(backend.Transactor).
			WithMemberRepo(backend.Members).
			WithStore(st).
			WithQueryFactory(qf),
	}, nil
}

func (a *app) Close() {
	a.backend.Close()
}
