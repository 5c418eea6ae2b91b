package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/repo"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/utils"
)

const (
	msgInvalidSignup   = "Invalid inputs, please check your data"
	msgUserExists      = "User exists already, please login or use a different email address"
	msgLoginNoAccount  = "Login failed. Please check your credentials and try again"
	msgLoginBadSecret  = "Invalid credentials, could not log you in."
	msgLoginStoreError = "Login failed. Please try again later"
)

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// SignupInput is what a new account is created from.
type SignupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
	Image    string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	UserID string
	Email  string
	Token  string
}

// UserService handles signup, login and the account listing.
type UserService struct {
	store    repo.Store
	tokens   TokenIssuer
	cost     int
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewUserService returns a new UserService. cost is the bcrypt work factor.
func NewUserService(store repo.Store, tokens TokenIssuer, cost int, log logrus.FieldLogger) *UserService {
	return &UserService{store: store, tokens: tokens, cost: cost, validate: validator.New(), log: log}
}

// List returns every account. An empty list is not an error.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	list, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperr.Persistence("Fetching users failed, please try again later", err)
	}
	return list, nil
}

// Signup creates an account and issues its first token.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return AuthResult{}, apperr.Validation(msgInvalidSignup).Wrap(err)
	}

	_, err := s.store.Users().GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return AuthResult{}, apperr.DuplicateAccount(msgUserExists)
	case !errors.Is(err, repo.ErrNotFound):
		return AuthResult{}, apperr.Persistence("Signup failed. Please try again later", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return AuthResult{}, apperr.Persistence("Could not create user, please try again", err)
	}

	u, err := s.store.Users().Create(ctx, dom.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Image:        in.Image,
		PlaceIDs:     []string{},
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return AuthResult{}, apperr.DuplicateAccount(msgUserExists)
		}
		return AuthResult{}, apperr.Persistence("Signup failed, please try again", err)
	}
	s.log.WithField("user_id", u.ID).Info("user signed up")

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, apperr.Unknown("Signup failed, please try again later", err)
	}
	return AuthResult{UserID: u.ID, Email: u.Email, Token: token}, nil
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password fail with different errors.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.store.Users().GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AuthResult{}, apperr.NotFound(msgLoginNoAccount).WithStatus(http.StatusUnauthorized)
		}
		return AuthResult{}, apperr.Persistence(msgLoginStoreError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return AuthResult{}, apperr.InvalidCredentials(msgLoginBadSecret)
		}
		return AuthResult{}, apperr.Unknown("Could not log you in, please try again", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, apperr.Unknown("Login failed, please try again later", err)
	}
	return AuthResult{UserID: u.ID, Email: u.Email, Token: token}, nil
}
