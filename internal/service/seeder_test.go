package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/query"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
)

func TestSeeder_Seed(t *testing.T) {
	tests := []struct {
		name         string
		members      int
		setupMocks   func(*MockTeamRepository, *MockMemberRepository)
		expectSeeded bool
		expectErr    bool
	}{
		{
			name:    "empty database",
			members: 4,
			setupMocks: func(tr *MockTeamRepository, mr *MockMemberRepository) {
				tr.On("List", mock.Anything).Return([]*repository.Team{}, nil)
				var id int64
				tr.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					id++
					args.Get(1).(*repository.Team).ID = id
				}).Return(nil).Twice()
				mr.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ms []*repository.Member) bool {
					if len(ms) != 4 {
						return false
					}
					for i, m := range ms {
						if *m.Username != "member"+string(rune('0'+i)) || m.Age != i || *m.TeamID != int64(i%2+1) {
							return false
						}
					}
					return true
				})).Return(nil)
			},
			expectSeeded: true,
		},
		{
			name:    "already seeded",
			members: 4,
			setupMocks: func(tr *MockTeamRepository, mr *MockMemberRepository) {
				tr.On("List", mock.Anything).Return([]*repository.Team{{ID: 1, Name: "teamA"}}, nil)
			},
		},
		{
			name:    "batch insert failure",
			members: 2,
			setupMocks: func(tr *MockTeamRepository, mr *MockMemberRepository) {
				tr.On("List", mock.Anything).Return(nil, nil)
				tr.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
				mr.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamRepo := new(MockTeamRepository)
			mockMemberRepo := new(MockMemberRepository)
			tt.setupMocks(mockTeamRepo, mockMemberRepo)

			seeder := NewSeeder(new(MockTransactor)).
				WithTeamRepo(mockTeamRepo).
				WithMemberRepo(mockMemberRepo)

			seeded, err := seeder.Seed(context.Background(), tt.members)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectSeeded, seeded)

			mockTeamRepo.AssertExpectations(t)
			mockMemberRepo.AssertExpectations(t)
		})
	}
}

func TestSeeder_Load(t *testing.T) {
	mockTeamRepo := new(MockTeamRepository)
	mockMemberRepo := new(MockMemberRepository)
	mockTeamRepo.On("List", mock.Anything).Return([]*repository.Team{{ID: 1, Name: "teamA"}, {ID: 2, Name: "teamB"}}, nil)
	mockMemberRepo.On("List", mock.Anything).Return([]*repository.Member{
		{ID: 1, Username: ptr("member0"), Age: 0, TeamID: ptr(int64(1))},
		{ID: 2, Username: ptr("member1"), Age: 1, TeamID: ptr(int64(2))},
		{ID: 3, Username: ptr("member2"), Age: 2, TeamID: ptr(int64(1))},
	}, nil)

	st := store.New()
	seeder := NewSeeder(new(MockTransactor)).
		WithTeamRepo(mockTeamRepo).
		WithMemberRepo(mockMemberRepo).
		WithStore(st)
	require.NoError(t, seeder.Load(context.Background()))

	teams, members := st.Len()
	assert.Equal(t, 2, teams)
	assert.Equal(t, 3, members)

	n, err := query.SelectFrom(query.NewFactory(st, nil), query.Member).
		Join(query.Member.Team).
		Where(query.Team.Name.Eq("teamA")).
		FetchCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSeeder_Load_Failure(t *testing.T) {
	mockTeamRepo := new(MockTeamRepository)
	mockMemberRepo := new(MockMemberRepository)
	mockTeamRepo.On("List", mock.Anything).Return(nil, errors.New("db error"))
	mockMemberRepo.On("List", mock.Anything).Return([]*repository.Member{}, nil).Maybe()

	seeder := NewSeeder(new(MockTransactor)).
		WithTeamRepo(mockTeamRepo).
		WithMemberRepo(mockMemberRepo).
		WithStore(store.New())
	assert.Error(t, seeder.Load(context.Background()))
}
