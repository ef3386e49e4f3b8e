package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
)

func TestTeamService_GetTeam(t *testing.T) {
	tests := []struct {
		name          string
		teamName      string
		expectedError bool
		errorCode     ErrorCode
		expectedNames []string
	}{
		{
			name:          "success",
			teamName:      "teamA",
			expectedNames: []string{"member1", "member2"},
		},
		{
			name:          "team not found",
			teamName:      "backend",
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, qf := newTestStore(t)
			service := NewTeamService(new(MockTransactor)).
				WithStore(st).
				WithQueryFactory(qf)

			got, err := service.GetTeam(context.Background(), tt.teamName)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.teamName, got.Name)
			names := make([]string, 0, len(got.Members))
			for _, m := range got.Members {
				names = append(names, *m.Username)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

func TestTeamService_AddTeam(t *testing.T) {
	tests := []struct {
		name          string
		team          *model.Team
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			team: &model.Team{Name: "teamC"},
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Create", mock.Anything, mock.MatchedBy(func(t *repository.Team) bool {
					return t.Name == "teamC"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Team).ID = 7
				}).Return(nil)
			},
		},
		{
			name: "team already exists",
			team: &model.Team{Name: "teamA"},
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeTeamExists,
		},
		{
			name: "create team failure",
			team: &model.Team{Name: "teamC"},
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, qf := newTestStore(t)
			mockTeamRepo := new(MockTeamRepository)
			tt.setupMocks(mockTeamRepo)

			service := NewTeamService(new(MockTransactor)).
				WithTeamRepo(mockTeamRepo).
				WithStore(st).
				WithQueryFactory(qf)

			err := service.AddTeam(context.Background(), tt.team)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
				assert.Equal(t, int64(7), tt.team.ID)

				got, getErr := service.GetTeam(context.Background(), "teamC")
				require.Nil(t, getErr)
				assert.Equal(t, int64(7), got.ID)
				assert.Empty(t, got.Members)
			}

			mockTeamRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_AddTeam_StoreFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	teams, _, tx := newSQLiteRepos(t)

	// The database hands out ID 1, which the store already holds.
	st := store.New()
	_, err := st.InsertTeam(model.Team{ID: 1, Name: "loaded"})
	require.NoError(t, err)

	service := NewTeamService(tx).WithTeamRepo(teams).WithStore(st)

	team := &model.Team{Name: "teamC"}
	res := service.AddTeam(ctx, team)
	require.NotNil(t, res)
	assert.Equal(t, ErrorCodeUnspecified, res.Code)
	assert.Zero(t, team.ID)

	rows, err := teams.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	n, _ := st.Len()
	assert.Equal(t, 1, n)
}

func TestTeamService_Stats(t *testing.T) {
	st, qf := newTestStore(t)
	_, err := st.InsertTeam(model.Team{Name: "empty"})
	require.NoError(t, err)

	service := NewTeamService(new(MockTransactor)).WithStore(st).WithQueryFactory(qf)

	got, serr := service.Stats(context.Background())
	require.Nil(t, serr)
	assert.Equal(t, []*model.TeamStats{
		{TeamName: "empty"},
		{TeamName: "teamA", MemberCount: 2, AvgAge: 15, MinAge: 10, MaxAge: 20},
		{TeamName: "teamB", MemberCount: 2, AvgAge: 35, MinAge: 30, MaxAge: 40},
	}, got)
}
