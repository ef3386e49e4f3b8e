package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
)

func TestMemberService_AddMember(t *testing.T) {
	tests := []struct {
		name          string
		member        *model.Member
		setupMocks    func(*MockMemberRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:   "success",
			member: &model.Member{Username: ptr("member6"), Age: 60, TeamID: ptr(int64(1))},
			setupMocks: func(mr *MockMemberRepository) {
				mr.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Member).ID = 100
				}).Return(nil)
			},
		},
		{
			name:   "unknown team",
			member: &model.Member{Username: ptr("ghost"), TeamID: ptr(int64(42))},
			setupMocks: func(mr *MockMemberRepository) {
				mr.On("Create", mock.Anything, mock.Anything).Return(repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:   "team missing from store",
			member: &model.Member{Username: ptr("ghost"), TeamID: ptr(int64(42))},
			setupMocks: func(mr *MockMemberRepository) {
				mr.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Member).ID = 101
				}).Return(nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:   "create failure",
			member: &model.Member{Age: 1},
			setupMocks: func(mr *MockMemberRepository) {
				mr.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, qf := newTestStore(t)
			mockMemberRepo := new(MockMemberRepository)
			tt.setupMocks(mockMemberRepo)

			service := NewMemberService(new(MockTransactor)).
				WithMemberRepo(mockMemberRepo).
				WithStore(st).
				WithQueryFactory(qf)

			err := service.AddMember(context.Background(), tt.member)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
				got, getErr := service.GetMember(context.Background(), 100)
				require.Nil(t, getErr)
				assert.Equal(t, "member6", *got.Username)
				assert.Equal(t, int64(1), *got.TeamID)
			}

			mockMemberRepo.AssertExpectations(t)
		})
	}
}

func TestMemberService_AddMember_StoreFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	teams, members, tx := newSQLiteRepos(t)

	// The team exists in the database but was never loaded into the store.
	team := &repository.Team{Name: "teamA"}
	require.NoError(t, teams.Create(ctx, team))

	st := store.New()
	service := NewMemberService(tx).WithMemberRepo(members).WithStore(st)

	member := &model.Member{Username: ptr("member1"), Age: 10, TeamID: &team.ID}
	res := service.AddMember(ctx, member)
	require.NotNil(t, res)
	assert.Equal(t, ErrorCodeNotFound, res.Code)
	assert.Zero(t, member.ID)

	rows, err := members.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, n := st.Len()
	assert.Zero(t, n)
}

func TestMemberService_GetMember(t *testing.T) {
	st, qf := newTestStore(t)
	service := NewMemberService(new(MockTransactor)).WithStore(st).WithQueryFactory(qf)

	got, err := service.GetMember(context.Background(), 3)
	require.Nil(t, err)
	assert.Equal(t, "member3", *got.Username)

	got, err = service.GetMember(context.Background(), 99)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)
	assert.Nil(t, got)
}

func TestMemberService_Search(t *testing.T) {
	tests := []struct {
		name string
		cond model.MemberSearchCondition
		want []string
	}{
		{name: "no condition", want: []string{"member1", "member2", "member3", "member4", "member5"}},
		{name: "username", cond: model.MemberSearchCondition{Username: "member3"}, want: []string{"member3"}},
		{name: "team name", cond: model.MemberSearchCondition{TeamName: "teamB"}, want: []string{"member3", "member4"}},
		{
			name: "age range",
			cond: model.MemberSearchCondition{AgeGoe: ptr(20), AgeLoe: ptr(40)},
			want: []string{"member2", "member3", "member4"},
		},
		{
			name: "team and age",
			cond: model.MemberSearchCondition{TeamName: "teamB", AgeGoe: ptr(35)},
			want: []string{"member4"},
		},
		{name: "no match", cond: model.MemberSearchCondition{TeamName: "teamC"}, want: []string{}},
	}

	st, qf := newTestStore(t)
	service := NewMemberService(new(MockTransactor)).WithStore(st).WithQueryFactory(qf)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Search(context.Background(), &tt.cond)
			require.Nil(t, err)

			names := make([]string, 0, len(got))
			for _, m := range got {
				names = append(names, *m.Username)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMemberService_Search_Projection(t *testing.T) {
	st, qf := newTestStore(t)
	service := NewMemberService(new(MockTransactor)).WithStore(st).WithQueryFactory(qf)

	got, err := service.Search(context.Background(), &model.MemberSearchCondition{AgeGoe: ptr(40)})
	require.Nil(t, err)
	assert.Equal(t, []*model.MemberTeam{
		{MemberID: 4, Username: ptr("member4"), Age: 40, TeamID: ptr(int64(2)), TeamName: ptr("teamB")},
		{MemberID: 5, Username: ptr("member5"), Age: 50},
	}, got)
}

func TestMemberService_SearchPage(t *testing.T) {
	st, qf := newTestStore(t)
	service := NewMemberService(new(MockTransactor)).WithStore(st).WithQueryFactory(qf)

	page, err := service.SearchPage(context.Background(),
		&model.MemberSearchCondition{AgeGoe: ptr(20)},
		model.PageRequest{Offset: 1, Limit: 2},
	)
	require.Nil(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, int64(1), page.Offset)
	assert.Equal(t, int64(2), page.Limit)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "member3", *page.Content[0].Username)
	assert.Equal(t, "member4", *page.Content[1].Username)

	_, err = service.SearchPage(context.Background(), &model.MemberSearchCondition{}, model.PageRequest{Offset: -1, Limit: 1})
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeInvalidQuery, err.Code)

	page, err = service.SearchPage(context.Background(), &model.MemberSearchCondition{}, model.PageRequest{Offset: 0, Limit: math.MaxInt64})
	require.Nil(t, err)
	assert.Len(t, page.Content, 5)
}
