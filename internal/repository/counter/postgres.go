package counter

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you-humble/btp-quote/internal/model"
)

const (
	countersTable     = "quote_counters"
	uniqueViolation   = "23505"
	maxInsertAttempts = 3
)

// PostgresStore locks the counter row with SELECT ... FOR UPDATE for the
// duration of the transaction. A missing row is inserted in the same
// transaction; losing that insert race restarts the round.
type PostgresStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PostgresStore) ReadModifyWrite(
	ctx context.Context,
	key string,
	fn func(current int64, exists bool) (int64, error),
) (int64, error) {
	const op = "counter.PostgresStore.ReadModifyWrite"

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		next, err := s.tx(ctx, key, fn)
		if err == nil {
			return next, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return 0, fmt.Errorf("%s: %w: counter %s", op, model.ErrConflict, key)
}

func (s *PostgresStore) tx(
	ctx context.Context,
	key string,
	fn func(current int64, exists bool) (int64, error),
) (next int64, err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	sel, args, err := s.sb.
		Select("value").
		From(countersTable).
		Where(sq.Eq{"key": key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, err
	}

	var (
		current int64
		exists  = true
	)
	if err = tx.QueryRow(ctx, sel, args...).Scan(&current); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		exists = false
	}

	next, err = fn(current, exists)
	if err != nil {
		return 0, err
	}

	var write sq.Sqlizer
	if exists {
		write = s.sb.
			Update(countersTable).
			Set("value", next).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"key": key})
	} else {
		write = s.sb.
			Insert(countersTable).
			Columns("key", "value").
			Values(key, next)
	}

	stmt, args, err := write.ToSql()
	if err != nil {
		return 0, err
	}
	if _, err = tx.Exec(ctx, stmt, args...); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return next, nil
}
