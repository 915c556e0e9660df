package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_StoresHashAndFoldedEmail(t *testing.T) {
	users := repotest.NewUserRepo()
	svc := NewUserService(users)

	u, err := svc.Register(context.Background(), " al ", "Al@X.com ", "p")
	require.NoError(t, err)

	assert.Equal(t, "al", u.Username)
	assert.Equal(t, "al@x.com", u.Email)
	assert.NotEqual(t, "p", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewUserService(repotest.NewUserRepo())

	for _, in := range [][3]string{
		{"", "a@x.com", "p"},
		{"al", "  ", "p"},
		{"al", "a@x.com", ""},
	} {
		_, err := svc.Register(context.Background(), in[0], in[1], in[2])
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc := NewUserService(repotest.NewUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "al", "A@x.com", "p")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "al2", "a@x.com", "q")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewUserService(repotest.NewUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "al", "a@x.com", "p")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "al", "b@x.com", "p")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

type failingUserRepo struct{ repotest.UserRepo }

func (f *failingUserRepo) GetByEmail(context.Context, string) (dom.User, error) {
	return dom.User{}, errors.New("db down")
}

func TestRegister_RepoError(t *testing.T) {
	svc := NewUserService(&failingUserRepo{})

	_, err := svc.Register(context.Background(), "al", "a@x.com", "p")
	assert.ErrorContains(t, err, "db down")
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(repotest.NewUserRepo())
	ctx := context.Background()
	reg, err := svc.Register(ctx, "al", "Al@X.com", "p")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "AL@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, wrongPass := svc.Authenticate(ctx, "al@x.com", "nope")
	_, noUser := svc.Authenticate(ctx, "ghost@x.com", "p")
	_, empty := svc.Authenticate(ctx, "", "")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.ErrorIs(t, empty, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestAuthenticate_RepoError(t *testing.T) {
	svc := NewUserService(&failingUserRepo{})

	_, err := svc.Authenticate(context.Background(), "a@x.com", "p")
	assert.ErrorContains(t, err, "db down")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserGetByID(t *testing.T) {
	svc := NewUserService(repotest.NewUserRepo())
	u, err := svc.Register(context.Background(), "al", "a@x.com", "p")
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "al", got.Username)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	users := repotest.NewUserRepo()
	svc := NewUserService(users)

	_, err := svc.Register(context.Background(), "al", "a@x.com", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 36 two-byte runes: short in characters, too long for bcrypt.
	_, err = svc.Register(context.Background(), "al", "a@x.com", strings.Repeat("é", 36)+"x")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = svc.Register(context.Background(), "al", "a@x.com", strings.Repeat("p", 72))
	assert.NoError(t, err)
}
