package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/db"
	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/query"
	"github.com/yakoovad/teamquery/internal/repository"
	"github.com/yakoovad/teamquery/internal/store"
)

// newTestStore holds teamA (member1 10, member2 20), teamB (member3 30,
// member4 40) and an unaffiliated member5 (50).
func newTestStore(t *testing.T) (*store.Store, *query.Factory) {
	t.Helper()

	st := store.New()
	teamA, err := st.InsertTeam(model.Team{Name: "teamA"})
	require.NoError(t, err)
	teamB, err := st.InsertTeam(model.Team{Name: "teamB"})
	require.NoError(t, err)

	for _, m := range []model.Member{
		model.NewMember("member1", 10, &teamA),
		model.NewMember("member2", 20, &teamA),
		model.NewMember("member3", 30, &teamB),
		model.NewMember("member4", 40, &teamB),
		model.NewMember("member5", 50, nil),
	} {
		_, err = st.InsertMember(m)
		require.NoError(t, err)
	}
	return st, query.NewFactory(st, nil)
}

// newSQLiteRepos opens an in-memory database with the schema applied.
func newSQLiteRepos(t *testing.T) (repository.TeamRepository, repository.MemberRepository, db.Transactor) {
	t.Helper()
	conn, err := repository.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return repository.NewSQLiteTeamRepository(conn), repository.NewSQLiteMemberRepository(conn), db.NewSQLTransactor(conn)
}

func ptr[T any](v T) *T {
	return &v
}
