// Package auth holds the operator session: the bearer token, the user it
// belongs to and the durable copy of the token.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
)

// ErrNoToken is returned by a TokenStore with an empty slot.
var ErrNoToken = errors.New("no stored token")

// TokenStore is the durable slot of the session token.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (string, models.User, error)
}

type Store struct {
	api      Authenticator
	tokens   TokenStore
	validate *validator.Validate
	log      *slog.Logger

	mu     sync.RWMutex
	token  string
	user   *models.User
	authed bool
	errMsg string
	// cause of the last failed login, nil after success or ClearError
	lastErr error
}

func New(api Authenticator, tokens TokenStore, log *slog.Logger) *Store {
	if tokens == nil {
		tokens = NewMemoryTokens()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		api:      api,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("store", "auth"),
	}
}

// Login exchanges credentials for a token. On failure the session is left as
// it was and ErrorMessage explains why.
func (s *Store) Login(ctx context.Context, creds models.Credentials) bool {
	s.ClearError()

	creds.Email = strings.TrimSpace(creds.Email)
	if err := s.validate.Struct(creds); err != nil {
		s.setFailure(apperr.MsgValidation, &apperr.Error{Kind: apperr.KindClient, Code: apperr.CodeValidation, Message: apperr.MsgValidation, Err: err})
		s.log.Warn("login rejected locally", "err", err)
		return false
	}

	token, user, err := s.api.Login(ctx, creds)
	if err != nil {
		s.setFailure(apperr.UserMessage(err, apperr.MsgLogin), err)
		apperr.Report(s.log, "login", err)
		return false
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.authed = true
	s.mu.Unlock()

	if err := s.tokens.Save(ctx, token); err != nil {
		s.log.Warn("token not persisted", "err", err)
	}
	s.log.Info("logged in", "user_id", user.ID, "email", user.Email)
	return true
}

// InitializeAuth restores the session from the durable slot. Presence of a
// token is enough; it is not checked against the backend.
func (s *Store) InitializeAuth(ctx context.Context) bool {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.log.Warn("token slot unreadable", "err", err)
		}
		return false
	}
	if token == "" {
		return false
	}

	s.mu.Lock()
	s.token = token
	s.authed = true
	if hint, ok := userHint(token, s.log); ok {
		s.user = &hint
	}
	s.mu.Unlock()
	return true
}

// Logout drops the session in memory and in the durable slot. No request is
// made.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.authed = false
	s.errMsg = ""
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.tokens.Delete(ctx); err != nil {
		s.log.Warn("token slot not cleared", "err", err)
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed && s.token != ""
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// AuthHeader is the Authorization value for writes, "" when anonymous.
func (s *Store) AuthHeader() string {
	if t := s.Token(); t != "" {
		return "Bearer " + t
	}
	return ""
}

func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// LastError is the cause behind ErrorMessage, nil when there is none.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) ClearError() { s.setFailure("", nil) }

func (s *Store) setFailure(msg string, err error) {
	s.mu.Lock()
	s.errMsg = msg
	s.lastErr = err
	s.mu.Unlock()
}

// userHint reads user fields from an unverified JWT. Opaque tokens give no hint.
func userHint(token string, log *slog.Logger) (models.User, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.User{}, false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		log.Warn("stored token looks expired", "exp", exp.Time)
	}

	var u models.User
	if v, ok := claims["email"].(string); ok {
		u.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		u.Name = v
	}
	switch v := claims["sub"].(type) {
	case float64:
		u.ID = int(v)
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			u.ID = id
		}
	}
	if u == (models.User{}) {
		return u, false
	}
	return u, true
}

// MemoryTokens keeps the token for the life of the process.
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokens() *MemoryTokens { return &MemoryTokens{} }

func (m *MemoryTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokens) Delete(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
