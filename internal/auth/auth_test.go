package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/apis/backend/endpoints"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
)

type fakeAPI struct {
	calls int
	token string
	user  models.User
	err   error
}

func (f *fakeAPI) Login(context.Context, models.Credentials) (string, models.User, error) {
	f.calls++
	return f.token, f.user, f.err
}

var goodCreds = models.Credentials{Email: "admin@shop.test", Password: "secret"}

func TestStore_LoginSuccess(t *testing.T) {
	api := &fakeAPI{token: "tok-1", user: models.User{ID: 1, Email: "admin@shop.test", Name: "Admin"}}
	tokens := NewMemoryTokens()
	s := New(api, tokens, nil)

	require.True(t, s.Login(context.Background(), goodCreds))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "Bearer tok-1", s.AuthHeader())
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Admin", u.Name)

	stored, err := tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)
}

func TestStore_LoginFailureNeverAuthenticates(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"rejected with message", &endpoints.APIError{Status: 401, Message: "Неверные учетные данные"}, "Неверные учетные данные"},
		{"rejected without message", &endpoints.APIError{Status: 401}, apperr.MsgLogin},
		{"no response", context.DeadlineExceeded, apperr.MsgNoResponse},
		{"setup", &endpoints.RequestError{Op: "Login", Err: errors.New("x")}, apperr.MsgUnexpected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := NewMemoryTokens()
			s := New(&fakeAPI{err: tc.err}, tokens, nil)

			assert.False(t, s.Login(context.Background(), goodCreds))

			assert.False(t, s.IsAuthenticated())
			assert.Empty(t, s.Token())
			assert.Equal(t, tc.want, s.ErrorMessage())
			assert.ErrorIs(t, s.LastError(), tc.err)
			_, err := tokens.Load(context.Background())
			assert.ErrorIs(t, err, ErrNoToken)
		})
	}
}

func TestStore_LoginValidatesLocally(t *testing.T) {
	api := &fakeAPI{token: "x"}
	s := New(api, nil, nil)

	assert.False(t, s.Login(context.Background(), models.Credentials{Email: "not-an-email", Password: "p"}))
	assert.False(t, s.Login(context.Background(), models.Credentials{Email: "a@b.test"}))

	assert.Equal(t, 0, api.calls)
	assert.Equal(t, apperr.MsgValidation, s.ErrorMessage())
	assert.False(t, s.IsAuthenticated())

	var ae *apperr.Error
	require.True(t, errors.As(s.LastError(), &ae))
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	s.ClearError()
	assert.NoError(t, s.LastError())
}

func TestStore_InitializeAuth(t *testing.T) {
	t.Run("empty slot", func(t *testing.T) {
		s := New(&fakeAPI{}, NewMemoryTokens(), nil)
		assert.False(t, s.InitializeAuth(context.Background()))
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("opaque token", func(t *testing.T) {
		tokens := NewMemoryTokens()
		require.NoError(t, tokens.Save(context.Background(), "7|laravel-sanctum-token"))
		s := New(&fakeAPI{}, tokens, nil)

		assert.True(t, s.InitializeAuth(context.Background()))
		assert.True(t, s.IsAuthenticated())
		_, ok := s.User()
		assert.False(t, ok)
	})

	t.Run("jwt gives a user hint", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "12",
			"email": "op@shop.test",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte("whatever"))
		require.NoError(t, err)

		tokens := NewMemoryTokens()
		require.NoError(t, tokens.Save(context.Background(), raw))
		s := New(&fakeAPI{}, tokens, nil)

		assert.True(t, s.InitializeAuth(context.Background()), "expiry is not checked")
		u, ok := s.User()
		require.True(t, ok)
		assert.Equal(t, models.User{ID: 12, Email: "op@shop.test"}, u)
	})
}

func TestStore_Logout(t *testing.T) {
	api := &fakeAPI{token: "tok", user: models.User{ID: 1}}
	tokens := NewMemoryTokens()
	s := New(api, tokens, nil)
	require.True(t, s.Login(context.Background(), goodCreds))

	s.Logout(context.Background())

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.AuthHeader())
	_, err := tokens.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, 1, api.calls, "logout sends nothing")

	assert.False(t, New(api, tokens, nil).InitializeAuth(context.Background()))
}
