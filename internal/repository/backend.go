package repository

import (
	"context"
	"database/sql"
	"embed"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/yakoovad/teamquery/config"
	"github.com/yakoovad/teamquery/internal/db"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Backend bundles the repositories and transactor of one database.
type Backend struct {
	Transactor db.Transactor
	Teams      TeamRepository
	Members    MemberRepository

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the configured database and creates missing tables.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Backend, error) {
	log = log.Named("repo." + cfg.Driver)

	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	default:
		return nil, errors.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func (b *Backend) Close() {
	b.close()
}

func openPostgres(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Backend, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse pool config")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "open pool")
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping pool")
	}

	stmts, err := schema("postgres")
	if err != nil {
		pool.Close()
		return nil, err
	}
	for _, stmt := range stmts {
		if _, err = pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "apply schema")
		}
	}

	log.Info("postgres ready", zap.Int32("max_conns", poolCfg.MaxConns))
	return &Backend{
		Transactor: db.NewPgxTransactor(pool),
		Teams:      NewPgxTeamRepository(pool),
		Members:    NewPgxMemberRepository(pool),
		ping:       pool.Ping,
		close:      pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Backend, error) {
	conn, err := OpenSQLite(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	log.Info("sqlite ready", zap.String("dsn", cfg.DSN))
	return &Backend{
		Transactor: db.NewSQLTransactor(conn),
		Teams:      NewSQLiteTeamRepository(conn),
		Members:    NewSQLiteMemberRepository(conn),
		ping:       conn.PingContext,
		close:      func() { _ = conn.Close() },
	}, nil
}

// OpenSQLite opens a single-connection SQLite database with foreign keys
// enforced and the schema applied.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// an in-memory database lives and dies with its connection
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	stmts, err := schema("sqlite")
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range append(pragmas, stmts...) {
		if _, err = conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "failed to execute %q", stmt)
		}
	}
	return conn, nil
}

func schema(dialect string) ([]string, error) {
	raw, err := schemaFS.ReadFile("schema/" + dialect + ".sql")
	if err != nil {
		return nil, errors.Wrap(err, "read schema")
	}

	var stmts []string
	for _, stmt := range strings.Split(string(raw), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}
