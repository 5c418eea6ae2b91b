package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/utils"

	"github.com/jackc/pgx/v5"
)

const placeColumns = `id::text, title, description, address, lat, lng, image, creator_id::text, created_at, updated_at`

type PGPlaceRepo struct {
	db DBTX
}

func NewPGPlaceRepo(db DBTX) *PGPlaceRepo {
	return &PGPlaceRepo{db: db}
}

func (r *PGPlaceRepo) List(ctx context.Context) ([]dom.Place, error) {
	return r.list(ctx, `SELECT `+placeColumns+` FROM places ORDER BY created_at`)
}

func (r *PGPlaceRepo) ListByCreator(ctx context.Context, userID string) ([]dom.Place, error) {
	if !utils.IsUUID(userID) {
		return []dom.Place{}, nil
	}
	return r.list(ctx, `SELECT `+placeColumns+` FROM places WHERE creator_id = $1 ORDER BY created_at`, userID)
}

func (r *PGPlaceRepo) list(ctx context.Context, query string, args ...any) ([]dom.Place, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPlaceRepo) GetByID(ctx context.Context, id string) (dom.Place, error) {
	if !utils.IsUUID(id) {
		return dom.Place{}, ErrNotFound
	}
	p, err := scanPlace(r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Place{}, ErrNotFound
	}
	return p, err
}

func (r *PGPlaceRepo) Create(ctx context.Context, p dom.Place) (dom.Place, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	query := `
		INSERT INTO places (id, title, description, address, lat, lng, image, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + placeColumns
	return scanPlace(r.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng,
		p.Image, p.CreatorID, p.CreatedAt, p.UpdatedAt,
	))
}

func (r *PGPlaceRepo) UpdateText(ctx context.Context, id, title, description string) (dom.Place, error) {
	if !utils.IsUUID(id) {
		return dom.Place{}, ErrNotFound
	}
	query := `
		UPDATE places SET title = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + placeColumns
	p, err := scanPlace(r.db.QueryRow(ctx, query, id, title, description))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Place{}, ErrNotFound
	}
	return p, err
}

func (r *PGPlaceRepo) Delete(ctx context.Context, id string) error {
	if !utils.IsUUID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlace(row pgx.Row) (dom.Place, error) {
	var p dom.Place
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng,
		&p.Image, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
