package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository"
	"github.com/iliyamo/movie-news/internal/utils"
)

var (
	// ErrLoginExists: registration with a login or email already taken.
	ErrLoginExists = repository.ErrLoginExists
	// ErrBadCredentials: unknown login or wrong password.
	ErrBadCredentials = errors.New("invalid credentials")
)

// UserService is the user directory: registration, authentication and
// the current account.  The resource services only ever read the login it
// puts into access tokens.
type UserService struct {
	users      repository.UserRepository
	secret     string
	ttlMin     int
	bcryptCost int
	log        zerolog.Logger
}

// NewUserService builds the directory on top of the store's user table.
func NewUserService(store repository.Store, secret string, ttlMin, bcryptCost int, log zerolog.Logger) *UserService {
	return &UserService{
		users:      store.Users(),
		secret:     secret,
		ttlMin:     ttlMin,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "user-service").Logger(),
	}
}

// Register creates a ROLE_USER account.
func (s *UserService) Register(ctx context.Context, r dto.Registration) (*model.User, error) {
	r.Login = strings.ToLower(strings.TrimSpace(r.Login))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := dto.Validate(r); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(r.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Login: r.Login, Email: r.Email, PasswordHash: hash, Role: model.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, classify(err)
	}
	s.log.Info().Str("login", u.Login).Msg("user registered")
	return u, nil
}

// Authenticate checks the credentials and issues an access token.
func (s *UserService) Authenticate(ctx context.Context, c dto.Credentials) (utils.AccessToken, error) {
	if err := dto.Validate(c); err != nil {
		return utils.AccessToken{}, err
	}
	u, err := s.users.GetByLogin(ctx, c.Login)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, ErrBadCredentials
	}
	if err != nil {
		return utils.AccessToken{}, classify(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, c.Password) {
		return utils.AccessToken{}, ErrBadCredentials
	}
	return utils.NewAccessToken(s.secret, u.Login, u.Role, s.ttlMin)
}

// Account returns the user behind login.
func (s *UserService) Account(ctx context.Context, login string) (*model.User, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}
