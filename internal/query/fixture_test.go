package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/query"
	"github.com/yakoovad/teamquery/internal/store"
)

type fixture struct {
	store *store.Store
	qf    *query.Factory
	teamA model.Team
	teamB model.Team
}

// newFixture seeds teamA with member1 (10) and member2 (20), and teamB with
// member3 (30) and member4 (40).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New()
	teamA, err := st.InsertTeam(model.Team{Name: "teamA"})
	require.NoError(t, err)
	teamB, err := st.InsertTeam(model.Team{Name: "teamB"})
	require.NoError(t, err)

	f := &fixture{store: st, qf: query.NewFactory(st, nil), teamA: teamA, teamB: teamB}
	f.member(t, "member1", 10, &teamA)
	f.member(t, "member2", 20, &teamA)
	f.member(t, "member3", 30, &teamB)
	f.member(t, "member4", 40, &teamB)
	return f
}

func (f *fixture) member(t *testing.T, username string, age int, team *model.Team) model.Member {
	t.Helper()
	m, err := f.store.InsertMember(model.NewMember(username, age, team))
	require.NoError(t, err)
	return m
}

func (f *fixture) anonymous(t *testing.T, age int) model.Member {
	t.Helper()
	m, err := f.store.InsertMember(model.Member{Age: age})
	require.NoError(t, err)
	return m
}

func usernames(members []model.Member) []*string {
	res := make([]*string, len(members))
	for i, m := range members {
		res[i] = m.Username
	}
	return res
}

func names(members []model.Member) []string {
	res := make([]string, 0, len(members))
	for _, m := range members {
		if m.Username == nil {
			res = append(res, "<null>")
			continue
		}
		res = append(res, *m.Username)
	}
	return res
}

func ptr[T any](v T) *T {
	return &v
}
