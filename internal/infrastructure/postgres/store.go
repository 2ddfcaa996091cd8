package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// DBTX is the subset of pgx used by the repositories.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is a DBTX that can open transactions, e.g. *pgxpool.Pool.
type Conn interface {
	DBTX
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Store implements repository.Store on top of a pgx pool.
type Store struct {
	conn Conn
	db   DBTX
	tx   pgx.Tx
}

func NewStore(conn Conn) *Store {
	return &Store{conn: conn, db: conn}
}

func (s *Store) Users() repository.UserRepository { return &UserRepository{db: s.db} }

func (s *Store) Sessions() repository.SessionRepository { return &SessionRepository{db: s.db} }

func (s *Store) VerificationTokens() repository.VerificationTokenRepository {
	return &VerificationTokenRepository{db: s.db}
}

func (s *Store) Files() repository.FileRepository { return &FileRepository{db: s.db} }

// WithTx runs fn inside a read-committed transaction, committing on success and
// rolling back on error or panic. Panics are rethrown. On a Store that is already
// bound to a transaction fn joins the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(&Store{conn: s.conn, db: tx, tx: tx})
	return err
}

const uniqueViolation = "23505"

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
