package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
	"github.com/vaheaslanyan/hoopscoop-backend/migrations"
)

// newPGStore connects to DATABASE_URL, migrates and empties the tables.
// Tests using it are skipped when DATABASE_URL is unset.
func newPGStore(t *testing.T) *PGStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.Up(db, "."))
	require.NoError(t, db.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE places, users CASCADE`)
	require.NoError(t, err)
	return NewPGStore(pool)
}

func seedPGUser(t *testing.T, s Store, email string) dom.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), dom.User{
		ID: uuid.NewString(), Name: "Ann", Email: email, PasswordHash: "h", Image: "/img/a.png",
	})
	require.NoError(t, err)
	return u
}

func pgPlace(creatorID string) dom.Place {
	return dom.Place{
		ID:          uuid.NewString(),
		Title:       "Empire State",
		Description: "Tall building",
		Address:     "20 W 34th St",
		Location:    dom.Location{Lat: 40.7484, Lng: -73.9857},
		Image:       "/img/p.png",
		CreatorID:   creatorID,
	}
}

func TestPGUsers(t *testing.T) {
	ctx := context.Background()
	s := newPGStore(t)

	u := seedPGUser(t, s, "ann@example.com")
	assert.Equal(t, []string{}, u.PlaceIDs)

	got, err := s.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().Create(ctx, dom.User{ID: uuid.NewString(), Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = s.Users().GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	p1, p2 := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Users().AddPlace(ctx, u.ID, p1))
	require.NoError(t, s.Users().AddPlace(ctx, u.ID, p2))
	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p1, p2}, got.PlaceIDs)

	require.NoError(t, s.Users().RemovePlace(ctx, u.ID, p1))
	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p2}, got.PlaceIDs)

	assert.ErrorIs(t, s.Users().AddPlace(ctx, uuid.NewString(), p1), ErrNotFound)
}

func TestPGPlaces(t *testing.T) {
	ctx := context.Background()
	s := newPGStore(t)
	u := seedPGUser(t, s, "ann@example.com")

	created, err := s.Places().Create(ctx, pgPlace(u.ID))
	require.NoError(t, err)
	assert.Equal(t, u.ID, created.CreatorID)
	assert.InDelta(t, 40.7484, created.Location.Lat, 1e-9)

	byUser, err := s.Places().ListByCreator(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	none, err := s.Places().ListByCreator(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)

	updated, err := s.Places().UpdateText(ctx, created.ID, "New title", "New description")
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, created.Address, updated.Address)

	require.NoError(t, s.Places().Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Places().Delete(ctx, created.ID), ErrNotFound)
	_, err = s.Places().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGWithinTx(t *testing.T) {
	ctx := context.Background()
	s := newPGStore(t)
	u := seedPGUser(t, s, "ann@example.com")

	p := pgPlace(u.ID)
	err := s.WithinTx(ctx, func(tx Store) error {
		if _, err := tx.Places().Create(ctx, p); err != nil {
			return err
		}
		return tx.Users().AddPlace(ctx, u.ID, p.ID)
	})
	require.NoError(t, err)
	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Owns(p.ID))

	errBoom := errors.New("boom")
	rolledBack := pgPlace(u.ID)
	err = s.WithinTx(ctx, func(tx Store) error {
		if _, err := tx.Places().Create(ctx, rolledBack); err != nil {
			return err
		}
		return tx.WithinTx(ctx, func(inner Store) error {
			if err := inner.Users().AddPlace(ctx, u.ID, rolledBack.ID); err != nil {
				return err
			}
			return errBoom
		})
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Places().GetByID(ctx, rolledBack.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Owns(rolledBack.ID))
	assert.Equal(t, []string{p.ID}, got.PlaceIDs)
}
