package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/internal/db"
	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/query"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
	"github.com/yakoovad/teamquery/pkg/logger"
)

type TeamService struct {
	tx db.Transactor

	teams repository.TeamRepository
	store *store.Store
	qf    *query.Factory
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx: tx,
	}
}

// AddTeam persists the team and appends it to the record store within one
// transaction. team.ID is set on success.
func (t *TeamService) AddTeam(ctx context.Context, team *model.Team) *Error {
	l := logger.FromContext(ctx)
	l.Info("adding team", zap.String("team_name", team.Name))

	row := &repository.Team{Name: team.Name}
	var stored model.Team
	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := t.teams.Create(txCtx, row)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("team already exists", zap.String("team_name", team.Name))
			return NewError(ErrorCodeTeamExists, "team_name already exists")
		}
		if err != nil {
			l.Error("failed to create team", zap.String("team_name", team.Name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create team")
		}

		// Last step: a store error rolls the insert back.
		stored, err = t.store.InsertTeam(model.Team{ID: row.ID, Name: team.Name})
		if err != nil {
			l.Error("failed to store team", zap.Int64("team_id", row.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create team")
		}
		return nil
	})
	if res := asError(err); res != nil {
		return res
	}
	*team = stored

	l.Debug("team added successfully", zap.Int64("team_id", team.ID))
	return nil
}

// GetTeam returns the team with its members ordered by id.
func (t *TeamService) GetTeam(ctx context.Context, name string) (*model.TeamWithMembers, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting team", zap.String("team_name", name))

	found, err := query.SelectFrom(t.qf, query.Team).
		Where(query.Team.Name.Eq(name)).
		FetchOne()
	if err != nil {
		l.Error("failed to get team", zap.String("team_name", name), zap.Error(err))
		return nil, queryError(err, "failed to get team")
	}
	team, ok := found.Get()
	if !ok {
		l.Warn("team not found", zap.String("team_name", name))
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}

	members, err := query.SelectFrom(t.qf, query.Member).
		Join(query.Member.Team).
		Where(query.Team.ID.Eq(team.ID)).
		OrderBy(query.Member.ID.Asc()).
		Fetch()
	if err != nil {
		l.Error("failed to get team members", zap.String("team_name", name), zap.Error(err))
		return nil, queryError(err, "failed to get team members")
	}

	res := &model.TeamWithMembers{ID: team.ID, Name: team.Name, Members: make([]*model.Member, 0, len(members))}
	for i := range members {
		res.Members = append(res.Members, &members[i])
	}

	l.Debug("team retrieved successfully", zap.String("team_name", name), zap.Int("members", len(members)))
	return res, nil
}

// Stats aggregates member ages per team. Teams without members are
// included with a zero count and zero ages.
func (t *TeamService) Stats(ctx context.Context) ([]*model.TeamStats, *Error) {
	l := logger.FromContext(ctx)

	age := query.Member.Age
	rows, err := query.SelectAs(t.qf, func(tp query.Tuple) *model.TeamStats {
		s := &model.TeamStats{}
		s.TeamName, _ = query.Value[string](tp, query.Team.Name)
		s.MemberCount, _ = query.Value[int64](tp, query.Member.Count())
		s.AvgAge, _ = query.Value[int64](tp, age.Avg())
		s.MinAge, _ = query.Value[int64](tp, age.Min())
		s.MaxAge, _ = query.Value[int64](tp, age.Max())
		return s
	}, query.Team.Name, query.Member.Count(), age.Avg(), age.Min(), age.Max()).
		From(query.Team).
		LeftJoin(query.Team.Members).
		GroupBy(query.Team.Name).
		OrderBy(query.Team.Name.Asc()).
		Fetch()
	if err != nil {
		l.Error("failed to compute team stats", zap.Error(err))
		return nil, queryError(err, "failed to compute team stats")
	}

	l.Debug("team stats computed", zap.Int("teams", len(rows)))
	return rows, nil
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithStore(s *store.Store) *TeamService {
	t.store = s
	return t
}

func (t *TeamService) WithQueryFactory(qf *query.Factory) *TeamService {
	t.qf = qf
	return t
}

// asError extracts the *Error a transaction callback returned.
func asError(err error) *Error {
	if err == nil {
		return nil
	}
	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return NewError(ErrorCodeUnspecified, err.Error())
}

func queryError(err error, message string) *Error {
	switch {
	case errors.Is(err, query.ErrNonUniqueResult):
		return NewError(ErrorCodeNotUnique, message+": more than one result")
	case errors.Is(err, query.ErrInvalidJoin),
		errors.Is(err, query.ErrInvalidPaging),
		errors.Is(err, query.ErrUnboundPath),
		errors.Is(err, query.ErrInvalidProjection),
		errors.Is(err, query.ErrNoSource):
		return NewError(ErrorCodeInvalidQuery, message)
	default:
		return NewError(ErrorCodeUnspecified, message)
	}
}
