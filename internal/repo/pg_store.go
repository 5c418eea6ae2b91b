package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements Store on a pgx pool.
type PGStore struct {
	pool   *pgxpool.Pool
	users  *PGUserRepo
	places *PGPlaceRepo
}

// NewPGStore returns a Store backed by pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, users: NewPGUserRepo(pool), places: NewPGPlaceRepo(pool)}
}

func (s *PGStore) Users() UserRepo   { return s.users }
func (s *PGStore) Places() PlaceRepo { return s.places }

// WithinTx begins a transaction, hands fn a store bound to it and commits
// only if fn succeeds.
func (s *PGStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTxStore{users: NewPGUserRepo(tx), places: NewPGPlaceRepo(tx)})
	})
}

type pgTxStore struct {
	users  *PGUserRepo
	places *PGPlaceRepo
}

func (s *pgTxStore) Users() UserRepo   { return s.users }
func (s *pgTxStore) Places() PlaceRepo { return s.places }

// WithinTx on a transactional store joins the running transaction.
func (s *pgTxStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(s)
}
