package repository

import (
	"context"
	"database/sql"
	"slices"

	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/yakoovad/teamquery/internal/db"
)

type sqliteMemberRepository struct {
	db *sql.DB
}

func NewSQLiteMemberRepository(conn *sql.DB) MemberRepository {
	return &sqliteMemberRepository{db: conn}
}

func (s *sqliteMemberRepository) Create(ctx context.Context, member *Member) error {
	e := db.GetSQLExecutorFromContext(ctx, s.db)

	q := sqlite.Insert(
		im.Into("member", "username", "age", "team_id"),
		im.Values(sqlite.Arg(member.Username), sqlite.Arg(member.Age), sqlite.Arg(member.TeamID)),
	)

	query, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	res, err := e.ExecContext(ctx, query, args...)
	if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return errors.Wrapf(ErrNotFound, "team %d", *member.TeamID)
	}
	if err != nil {
		return err
	}

	member.ID, err = res.LastInsertId()
	return err
}

func (s *sqliteMemberRepository) CreateBatch(ctx context.Context, members []*Member) error {
	for chunk := range slices.Chunk(members, batchSize) {
		if err := s.insertBatch(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteMemberRepository) insertBatch(ctx context.Context, members []*Member) error {
	e := db.GetSQLExecutorFromContext(ctx, s.db)

	q := sqlite.Insert(
		im.Into("member", "username", "age", "team_id"),
	)

	for _, member := range members {
		q.Apply(im.Values(sqlite.Arg(member.Username), sqlite.Arg(member.Age), sqlite.Arg(member.TeamID)))
	}

	query, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.ExecContext(ctx, query, args...)
	if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return errors.Wrap(ErrNotFound, "team")
	}
	return err
}

func (s *sqliteMemberRepository) List(ctx context.Context) ([]*Member, error) {
	e := db.GetSQLExecutorFromContext(ctx, s.db)

	q := sqlite.Select(
		sm.Columns("id", "username", "age", "team_id"),
		sm.From("member"),
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

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err = rows.Scan(&member.ID, &member.Username, &member.Age, &member.TeamID); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
