package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository/memory"
	"github.com/iliyamo/movie-news/internal/utils"
)

const testSecret = "test-secret"

func newUserService() *UserService {
	return NewUserService(memory.New(), testSecret, 15, bcrypt.MinCost, zerolog.Nop())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	u, err := svc.Register(ctx, dto.Registration{Login: "  Alice ", Email: "Alice@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Login)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	tok, err := svc.Authenticate(ctx, dto.Credentials{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)
	claims, err := utils.ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, model.RoleUser, claims.Role)

	acc, err := svc.Account(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, acc.ID)
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, dto.Registration{Login: "bob", Email: "bob@x.io", Password: "pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.Registration{Login: "BOB", Email: "other@x.io", Password: "pass"})
	assert.ErrorIs(t, err, ErrLoginExists)
	_, err = svc.Register(ctx, dto.Registration{Login: "bobby", Email: "bob@x.io", Password: "pass"})
	assert.ErrorIs(t, err, ErrLoginExists)
}

func TestRegister_Invalid(t *testing.T) {
	svc := newUserService()
	tests := []struct {
		name  string
		req   dto.Registration
		field string
	}{
		{"no login", dto.Registration{Email: "a@x.io", Password: "pass"}, "login"},
		{"bad email", dto.Registration{Login: "a", Email: "nope", Password: "pass"}, "email"},
		{"short password", dto.Registration{Login: "a", Email: "a@x.io", Password: "abc"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()
	_, err := svc.Register(ctx, dto.Registration{Login: "carol", Email: "c@x.io", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, dto.Credentials{Login: "carol", Password: "wrong"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Authenticate(ctx, dto.Credentials{Login: "nobody", Password: "right"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAccount_Unknown(t *testing.T) {
	_, err := newUserService().Account(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
