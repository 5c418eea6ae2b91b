package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/geocode"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/repo"
)

const (
	msgInvalidPlace    = "Invalid inputs, please check the data"
	msgPlaceNotFound   = "Could not find a place with the provided ID"
	msgFetchFailed     = "Fetching places failed, please try again later"
	msgCreateFailed    = "Creating place failed, please try again"
	msgUpdateFailed    = "Something went wrong. Could not update place"
	msgDeleteFailed    = "Something went wrong. Could not delete place"
	msgEditForbidden   = "You do not have permission to edit this place"
	msgDeleteForbidden = "You do not have permission to delete this place"
)

// ImageRemover deletes a stored image by its reference.
type ImageRemover interface {
	Delete(ctx context.Context, ref string) error
}

// CreatePlaceInput is what a new place is created from.
type CreatePlaceInput struct {
	CreatorID   string
	Title       string `validate:"required"`
	Description string `validate:"min=5"`
	Address     string `validate:"required"`
	Image       string
}

type updatePlaceInput struct {
	Title       string `validate:"required"`
	Description string `validate:"min=5"`
}

// PlaceService runs the place workflows. Creating and deleting a place
// writes the place and its owner's place collection in one transaction.
type PlaceService struct {
	store    repo.Store
	geocoder geocode.Resolver
	images   ImageRemover
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewPlaceService returns a new PlaceService. images may be nil, in which
// case stored images are left in place on delete.
func NewPlaceService(store repo.Store, geocoder geocode.Resolver, images ImageRemover, log logrus.FieldLogger) *PlaceService {
	return &PlaceService{
		store:    store,
		geocoder: geocoder,
		images:   images,
		validate: validator.New(),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns all places, oldest first. No places is an empty list.
func (s *PlaceService) List(ctx context.Context) ([]dom.Place, error) {
	list, err := s.store.Places().List(ctx)
	if err != nil {
		return nil, apperr.Persistence(msgFetchFailed, err)
	}
	return list, nil
}

// ListByUser returns the places created by userID.
func (s *PlaceService) ListByUser(ctx context.Context, userID string) ([]dom.Place, error) {
	list, err := s.store.Places().ListByCreator(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(msgFetchFailed, err)
	}
	return list, nil
}

func (s *PlaceService) GetByID(ctx context.Context, id string) (dom.Place, error) {
	p, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Place{}, apperr.NotFound(msgPlaceNotFound)
		}
		return dom.Place{}, apperr.Persistence("Something went wrong. Place not found", err)
	}
	return p, nil
}

// Create geocodes the address, re-checks that the creator exists and stores
// the place together with the creator's reference to it.
func (s *PlaceService) Create(ctx context.Context, in CreatePlaceInput) (dom.Place, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validate.Struct(in); err != nil {
		return dom.Place{}, apperr.Validation(msgInvalidPlace).Wrap(err)
	}

	loc, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return dom.Place{}, err
	}

	// The token's user id is not trusted until it resolves to a stored user.
	if _, err := s.store.Users().GetByID(ctx, in.CreatorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Place{}, apperr.NotFound("User cannot be found")
		}
		return dom.Place{}, apperr.Persistence(msgCreateFailed, err)
	}

	now := s.now()
	place := dom.Place{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Address:     loc.Address,
		Location:    loc.Location,
		Image:       in.Image,
		CreatorID:   in.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if place.Address == "" {
		place.Address = in.Address
	}

	var created dom.Place
	err = s.store.WithinTx(ctx, func(tx repo.Store) error {
		var err error
		if created, err = tx.Places().Create(ctx, place); err != nil {
			return err
		}
		return tx.Users().AddPlace(ctx, in.CreatorID, place.ID)
	})
	if err != nil {
		return dom.Place{}, apperr.Persistence(msgCreateFailed, err)
	}
	s.log.WithFields(logrus.Fields{"place_id": created.ID, "user_id": in.CreatorID}).Info("place created")
	return created, nil
}

// Update changes title and description of a place owned by callerID.
func (s *PlaceService) Update(ctx context.Context, id, callerID, title, description string) (dom.Place, error) {
	in := updatePlaceInput{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	if err := s.validate.Struct(in); err != nil {
		return dom.Place{}, apperr.Validation(msgInvalidPlace).Wrap(err)
	}

	existing, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Place{}, apperr.NotFound(msgPlaceNotFound)
		}
		return dom.Place{}, apperr.Persistence(msgUpdateFailed, err)
	}
	if existing.CreatorID != callerID {
		return dom.Place{}, apperr.Forbidden(msgEditForbidden)
	}

	p, err := s.store.Places().UpdateText(ctx, id, in.Title, in.Description)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Place{}, apperr.NotFound(msgPlaceNotFound)
		}
		return dom.Place{}, apperr.Persistence(msgUpdateFailed, err)
	}
	return p, nil
}

// Delete removes a place owned by callerID and the owner's reference to it,
// then removes the stored image. A failed image removal is only logged.
func (s *PlaceService) Delete(ctx context.Context, id, callerID string) error {
	p, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Place not found")
		}
		return apperr.Persistence(msgDeleteFailed, err)
	}
	if p.CreatorID != callerID {
		return apperr.Forbidden(msgDeleteForbidden)
	}

	err = s.store.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Places().Delete(ctx, p.ID); err != nil {
			return err
		}
		return tx.Users().RemovePlace(ctx, p.CreatorID, p.ID)
	})
	if err != nil {
		return apperr.Persistence(msgDeleteFailed, err)
	}

	if s.images != nil && p.Image != "" {
		if err := s.images.Delete(ctx, p.Image); err != nil {
			s.log.WithError(err).WithField("image", p.Image).Warn("could not remove place image")
		}
	}
	s.log.WithFields(logrus.Fields{"place_id": p.ID, "user_id": callerID}).Info("place deleted")
	return nil
}
