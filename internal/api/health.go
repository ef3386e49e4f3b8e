package api

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yakoovad/teamquery/internal/metrics"
	"github.com/yakoovad/teamquery/internal/store"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

func NewHealthChecker(version string, checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: "teamquery", Version: version}))
	if err != nil {
		return nil, errors.Wrap(err, "create health checker")
	}

	for _, check := range checks {
		if err := h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "register health check %s", check.Name)
		}
	}

	return &healthChecker{
		health: h,
	}, nil
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}

// PingCheck reports the storage backend as unavailable when ping fails.
func PingCheck(name string, ping func(ctx context.Context) error) health.Config {
	return health.Config{
		Name:    name,
		Timeout: 2 * time.Second,
		Check:   ping,
	}
}

// StoreCheck publishes the record store size on every probe. It fails only
// when a member refers to a team the store does not hold.
func StoreCheck(s *store.Store) health.Config {
	return health.Config{
		Name:      "store",
		Timeout:   time.Second,
		SkipOnErr: true,
		Check: func(context.Context) error {
			snap := s.Snapshot()
			metrics.SetStoreSize(len(snap.Teams()), len(snap.Members()))

			members := snap.Members()
			for i := range members {
				if _, err := snap.TeamOf(&members[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
