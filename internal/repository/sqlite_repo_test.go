package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/db"
)

func newSQLiteRepos(t *testing.T) (TeamRepository, MemberRepository, db.Transactor) {
	t.Helper()
	conn, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewSQLiteTeamRepository(conn), NewSQLiteMemberRepository(conn), db.NewSQLTransactor(conn)
}

func ptr[T any](v T) *T {
	return &v
}

func TestSQLiteTeamRepository(t *testing.T) {
	ctx := context.Background()
	teams, _, _ := newSQLiteRepos(t)

	a := &Team{Name: "teamA"}
	require.NoError(t, teams.Create(ctx, a))
	b := &Team{Name: "teamB"}
	require.NoError(t, teams.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	err := teams.Create(ctx, &Team{Name: "teamA"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := teams.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*Team{a, b}, got)
}

func TestSQLiteMemberRepository(t *testing.T) {
	ctx := context.Background()
	teams, members, _ := newSQLiteRepos(t)

	team := &Team{Name: "teamA"}
	require.NoError(t, teams.Create(ctx, team))

	tests := []struct {
		name    string
		member  *Member
		wantErr error
	}{
		{name: "with team", member: &Member{Username: ptr("member1"), Age: 10, TeamID: &team.ID}},
		{name: "null username and team", member: &Member{Age: 20}},
		{name: "unknown team", member: &Member{Username: ptr("ghost"), TeamID: ptr(int64(42))}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := members.Create(ctx, tt.member)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.member.ID)
		})
	}

	got, err := members.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "member1", *got[0].Username)
	assert.Equal(t, team.ID, *got[0].TeamID)
	assert.Nil(t, got[1].Username)
	assert.Nil(t, got[1].TeamID)
}

func TestSQLiteMemberRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	teams, members, tx := newSQLiteRepos(t)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		team := &Team{Name: "teamA"}
		if err := teams.Create(ctx, team); err != nil {
			return err
		}
		return members.CreateBatch(ctx, []*Member{
			{Username: ptr("member0"), Age: 0, TeamID: &team.ID},
			{Username: ptr("member1"), Age: 1, TeamID: &team.ID},
			{Username: ptr("member2"), Age: 2},
		})
	})
	require.NoError(t, err)

	got, err := members.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[2].Age)

	require.NoError(t, members.CreateBatch(ctx, nil))
}

func TestSQLiteMemberRepository_CreateBatch_ManyChunks(t *testing.T) {
	ctx := context.Background()
	teams, members, tx := newSQLiteRepos(t)

	const n = 12000
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		team := &Team{Name: "teamA"}
		if err := teams.Create(ctx, team); err != nil {
			return err
		}
		batch := make([]*Member, n)
		for i := range batch {
			batch[i] = &Member{Username: ptr(fmt.Sprintf("member%d", i)), Age: i, TeamID: &team.ID}
		}
		return members.CreateBatch(ctx, batch)
	})
	require.NoError(t, err)

	got, err := members.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, n)
	assert.Equal(t, "member0", *got[0].Username)
	assert.Equal(t, n-1, got[n-1].Age)
}

func TestSQLiteMemberRepository_CreateBatch_RollsBackEarlierChunks(t *testing.T) {
	ctx := context.Background()
	_, members, tx := newSQLiteRepos(t)

	batch := make([]*Member, batchSize+1)
	for i := range batchSize {
		batch[i] = &Member{Username: ptr(fmt.Sprintf("member%d", i)), Age: i}
	}
	batch[batchSize] = &Member{Username: ptr("ghost"), TeamID: ptr(int64(99))}

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return members.CreateBatch(ctx, batch)
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := members.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	teams, members, tx := newSQLiteRepos(t)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := teams.Create(ctx, &Team{Name: "teamA"}); err != nil {
			return err
		}
		return members.CreateBatch(ctx, []*Member{{Username: ptr("x"), TeamID: ptr(int64(99))}})
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := teams.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
