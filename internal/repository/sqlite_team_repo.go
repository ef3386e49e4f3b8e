package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/yakoovad/teamquery/internal/db"
)

type sqliteTeamRepository struct {
	db *sql.DB
}

func NewSQLiteTeamRepository(conn *sql.DB) TeamRepository {
	return &sqliteTeamRepository{db: conn}
}

func (s *sqliteTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetSQLExecutorFromContext(ctx, s.db)

	q := sqlite.Insert(
		im.Into("team", "name"),
		im.Values(sqlite.Arg(team.Name)),
	)

	query, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	res, err := e.ExecContext(ctx, query, args...)
	if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	team.ID, err = res.LastInsertId()
	return err
}

func (s *sqliteTeamRepository) List(ctx context.Context) ([]*Team, error) {
	e := db.GetSQLExecutorFromContext(ctx, s.db)

	q := sqlite.Select(
		sm.Columns("id", "name"),
		sm.From("team"),
		sm.OrderBy("id"),
	)

	query, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		team := &Team{}
		if err = rows.Scan(&team.ID, &team.Name); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// sqliteCode returns the extended result code of a modernc sqlite error, or
// 0 for nil and non-sqlite errors.
func sqliteCode(err error) int {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}
