package repository

import "context"

// batchSize bounds the rows of one multi-row INSERT. Each member row binds
// three variables; SQLite accepts at most 32766 per statement.
const batchSize = 1000

type Team struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Member struct {
	ID       int64   `db:"id"`
	Username *string `db:"username"`
	Age      int     `db:"age"`
	TeamID   *int64  `db:"team_id"`
}

// TeamRepository persists teams. Create fills in the generated ID.
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	List(ctx context.Context) ([]*Team, error)
}

// MemberRepository persists members. Create fills in the generated ID and
// returns ErrNotFound when the referenced team does not exist.
type MemberRepository interface {
	Create(ctx context.Context, member *Member) error
	// CreateBatch inserts members in statements of up to batchSize rows
	// without reading back IDs. Run it in a transaction to make it atomic.
	CreateBatch(ctx context.Context, members []*Member) error
	List(ctx context.Context) ([]*Member, error)
}
