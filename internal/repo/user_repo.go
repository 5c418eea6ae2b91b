package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/utils"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id::text, name, email, password_hash, image, place_ids::text[], created_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DBTX
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DBTX) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	if !utils.IsUUID(id) {
		return dom.User{}, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PGUserRepo) getOne(ctx context.Context, query string, arg string) (dom.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO users (id, name, email, password_hash, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Image, u.CreatedAt))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrDuplicateEmail
		}
		return dom.User{}, err
	}
	return out, nil
}

func (r *PGUserRepo) AddPlace(ctx context.Context, userID, placeID string) error {
	return r.execOne(ctx, `UPDATE users SET place_ids = array_append(place_ids, $2::uuid) WHERE id = $1`, userID, placeID)
}

func (r *PGUserRepo) RemovePlace(ctx context.Context, userID, placeID string) error {
	return r.execOne(ctx, `UPDATE users SET place_ids = array_remove(place_ids, $2::uuid) WHERE id = $1`, userID, placeID)
}

func (r *PGUserRepo) execOne(ctx context.Context, query, userID, placeID string) error {
	if !utils.IsUUID(userID) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, query, userID, placeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &u.PlaceIDs, &u.CreatedAt)
	return u, err
}
