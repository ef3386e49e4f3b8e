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

type MemberService struct {
	tx db.Transactor

	members repository.MemberRepository
	store   *store.Store
	qf      *query.Factory
}

func NewMemberService(tx db.Transactor) *MemberService {
	return &MemberService{tx: tx}
}

// AddMember persists the member and appends it to the record store within
// one transaction. member.ID is set on success.
func (m *MemberService) AddMember(ctx context.Context, member *model.Member) *Error {
	l := logger.FromContext(ctx)
	l.Info("adding member", zap.Stringp("username", member.Username), zap.Int64p("team_id", member.TeamID))

	row := &repository.Member{Username: member.Username, Age: member.Age, TeamID: member.TeamID}
	var stored model.Member
	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := m.members.Create(txCtx, row)
		if errors.Is(err, repository.ErrNotFound) {
			l.Warn("member references unknown team", zap.Int64p("team_id", member.TeamID))
			return NewError(ErrorCodeNotFound, "team not found")
		}
		if err != nil {
			l.Error("failed to create member", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create member")
		}

		// Last step: a store error rolls the insert back.
		stored, err = m.store.InsertMember(model.Member{ID: row.ID, Username: row.Username, Age: row.Age, TeamID: row.TeamID})
		if errors.Is(err, store.ErrDanglingReference) {
			l.Warn("team is missing from the record store", zap.Int64p("team_id", member.TeamID), zap.Error(err))
			return NewError(ErrorCodeNotFound, "team not found")
		}
		if err != nil {
			l.Error("failed to store member", zap.Int64("member_id", row.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create member")
		}
		return nil
	})
	if res := asError(err); res != nil {
		return res
	}
	*member = stored

	l.Debug("member added successfully", zap.Int64("member_id", member.ID))
	return nil
}

func (m *MemberService) GetMember(ctx context.Context, id int64) (*model.Member, *Error) {
	l := logger.FromContext(ctx)

	found, err := query.SelectFrom(m.qf, query.Member).
		Where(query.Member.ID.Eq(id)).
		FetchOne()
	if err != nil {
		l.Error("failed to get member", zap.Int64("member_id", id), zap.Error(err))
		return nil, queryError(err, "failed to get member")
	}
	member, ok := found.Get()
	if !ok {
		l.Warn("member not found", zap.Int64("member_id", id))
		return nil, NewError(ErrorCodeNotFound, "member not found")
	}
	return &member, nil
}

// Search returns every member matching the condition, with its team.
func (m *MemberService) Search(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeam, *Error) {
	l := logger.FromContext(ctx)

	res, err := searchQuery(m.qf, cond).Fetch()
	if err != nil {
		l.Error("member search failed", zap.Any("condition", cond), zap.Error(err))
		return nil, queryError(err, "member search failed")
	}

	l.Debug("member search done", zap.Int("results", len(res)))
	return res, nil
}

// SearchPage returns one page of Search results and the total match count.
func (m *MemberService) SearchPage(ctx context.Context, cond *model.MemberSearchCondition, page model.PageRequest) (*model.Page[*model.MemberTeam], *Error) {
	l := logger.FromContext(ctx)

	res, err := searchQuery(m.qf, cond).
		Offset(page.Offset).
		Limit(page.Limit).
		FetchResults()
	if err != nil {
		l.Error("member search failed", zap.Any("condition", cond), zap.Error(err))
		return nil, queryError(err, "member search failed")
	}

	l.Debug("member search page done", zap.Int64("total", res.Total), zap.Int("results", len(res.Results)))
	return &model.Page[*model.MemberTeam]{
		Content: res.Results,
		Total:   res.Total,
		Offset:  res.Offset,
		Limit:   res.Limit,
	}, nil
}

func (m *MemberService) WithMemberRepo(r repository.MemberRepository) *MemberService {
	m.members = r
	return m
}

func (m *MemberService) WithStore(s *store.Store) *MemberService {
	m.store = s
	return m
}

func (m *MemberService) WithQueryFactory(qf *query.Factory) *MemberService {
	m.qf = qf
	return m
}

// searchQuery left-joins each member to its team and applies only the
// conditions that are set.
func searchQuery(qf *query.Factory, cond *model.MemberSearchCondition) query.Query[*model.MemberTeam] {
	member, team := query.Member, query.Team

	var where []query.Predicate
	if cond.Username != "" {
		where = append(where, member.Username.Eq(cond.Username))
	}
	if cond.TeamName != "" {
		where = append(where, team.Name.Eq(cond.TeamName))
	}
	if cond.AgeGoe != nil {
		where = append(where, member.Age.Goe(int64(*cond.AgeGoe)))
	}
	if cond.AgeLoe != nil {
		where = append(where, member.Age.Loe(int64(*cond.AgeLoe)))
	}

	return query.SelectAs(qf, toMemberTeam, member, team).
		From(member).
		LeftJoin(member.Team).
		Where(where...).
		OrderBy(member.ID.Asc())
}

func toMemberTeam(tp query.Tuple) *model.MemberTeam {
	res := &model.MemberTeam{}
	if m, ok := query.Value[*model.Member](tp, query.Member); ok {
		res.MemberID = m.ID
		res.Username = m.Username
		res.Age = m.Age
	}
	if t, ok := query.Value[*model.Team](tp, query.Team); ok {
		res.TeamID = &t.ID
		res.TeamName = &t.Name
	}
	return res
}
