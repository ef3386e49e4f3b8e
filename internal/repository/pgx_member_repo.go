package repository

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"

	"github.com/yakoovad/teamquery/internal/db"
)

type pgxMemberRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgxMemberRepository{pool: pool}
}

func (p *pgxMemberRepository) Create(ctx context.Context, member *Member) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("member", "username", "age", "team_id"),
		im.Values(psql.Arg(member.Username), psql.Arg(member.Age), psql.Arg(member.TeamID)),
		im.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&member.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return errors.Wrapf(ErrNotFound, "team %d", *member.TeamID)
	}

	return err
}

func (p *pgxMemberRepository) CreateBatch(ctx context.Context, members []*Member) error {
	for chunk := range slices.Chunk(members, batchSize) {
		if err := p.insertBatch(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (p *pgxMemberRepository) insertBatch(ctx context.Context, members []*Member) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("member", "username", "age", "team_id"),
	)

	for _, member := range members {
		q.Apply(im.Values(psql.Arg(member.Username), psql.Arg(member.Age), psql.Arg(member.TeamID)))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return errors.Wrap(ErrNotFound, "team")
	}

	return err
}

func (p *pgxMemberRepository) List(ctx context.Context) ([]*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "username", "age", "team_id"),
		sm.From("member"),
		sm.OrderBy("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Member, error) {
		member := &Member{}
		if err := row.Scan(&member.ID, &member.Username, &member.Age, &member.TeamID); err != nil {
			return nil, err
		}
		return member, nil
	})
}
