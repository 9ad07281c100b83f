package pool

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/structmap/automapper/mapper"
	"github.com/structmap/automapper/pgxrows"
)

type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	QueryOne(ctx context.Context, sql string, dest any, args pgx.NamedArgs) error
	QueryList(ctx context.Context, sql string, dest any, args pgx.NamedArgs) error
	Ping(ctx context.Context) error
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

func NewDatabasePool(cfg DatabaseConfiguration) Conn {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.getDSN())
	if err != nil {
		panic(errors.Wrap(err, "create db conn pool"))
	}
	if err := pool.Ping(ctx); err != nil {
		panic(errors.Wrap(err, "could not ping db"))
	}
	return &databaseConnectionPool{pool: pool}
}

// QueryOneAs scans a single row into entity type E and maps it onto a new
// DTO of type D.
func QueryOneAs[E any, D any](ctx context.Context, conn Conn, sql string, args pgx.NamedArgs) (D, error) {
	var entity E
	if err := conn.QueryOne(ctx, sql, &entity, args); err != nil {
		var dto D
		return dto, err
	}
	return mapper.Map[D](entity)
}

// QueryListAs scans every row into entity type E and maps each onto a DTO
// of type D.
func QueryListAs[E any, D any](ctx context.Context, conn Conn, sql string, args pgx.NamedArgs) ([]D, error) {
	var entities []E
	if err := conn.QueryList(ctx, sql, &entities, args); err != nil {
		return nil, err
	}
	return mapper.MapSlice[D](entities)
}

type databaseConnectionPool struct {
	pool *pgxpool.Pool
}

func (p *databaseConnectionPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *databaseConnectionPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p *databaseConnectionPool) QueryOne(ctx context.Context, sql string, dest any, args pgx.NamedArgs) error {
	rows, err := p.pool.Query(ctx, sql, args)
	if err != nil {
		return err
	}
	defer rows.Close()

	return pgxrows.ScanOne(rows, dest)
}

func (p *databaseConnectionPool) QueryList(ctx context.Context, sql string, dest any, args pgx.NamedArgs) error {
	rows, err := p.pool.Query(ctx, sql, args)
	if err != nil {
		return err
	}
	defer rows.Close()

	return pgxrows.ScanAll(rows, dest)
}

func (p *databaseConnectionPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *databaseConnectionPool) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *databaseConnectionPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return p.pool.BeginTx(ctx, txOptions)
}
