package repo

import (
	"context"
	"errors"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup or targeted write matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user insert violates email uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepo provides user persistence.
type UserRepo interface {
	List(ctx context.Context) ([]dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	// AddPlace appends placeID to the user's place collection.
	AddPlace(ctx context.Context, userID, placeID string) error
	// RemovePlace drops placeID from the user's place collection.
	RemovePlace(ctx context.Context, userID, placeID string) error
}

// PlaceRepo provides place persistence.
type PlaceRepo interface {
	List(ctx context.Context) ([]dom.Place, error)
	ListByCreator(ctx context.Context, userID string) ([]dom.Place, error)
	GetByID(ctx context.Context, id string) (dom.Place, error)
	Create(ctx context.Context, p dom.Place) (dom.Place, error)
	UpdateText(ctx context.Context, id, title, description string) (dom.Place, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories and runs units of work across them.
type Store interface {
	Users() UserRepo
	Places() PlaceRepo
	// WithinTx runs fn against a transactional view of the store. All writes
	// made through tx commit together when fn returns nil; any error rolls
	// every one of them back.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
