// Package submit performs authenticated writes against the backend and keeps
// the code and message of the last failure.
package submit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
)

const DefaultTimeout = 30 * time.Second

type Creator interface {
	CreateCategory(ctx context.Context, token string, in models.CategoryCreate) (models.CategoryCreated, error)
}

// Session is the part of the auth store a write needs.
type Session interface {
	IsAuthenticated() bool
	Token() string
	Logout(ctx context.Context)
}

type Store struct {
	api      Creator
	session  Session
	timeout  time.Duration
	validate *validator.Validate
	log      *slog.Logger

	mu      sync.RWMutex
	loading bool
	code    apperr.Code
	msg     string
}

func New(api Creator, session Session, timeout time.Duration, log *slog.Logger) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		api:      api,
		session:  session,
		timeout:  timeout,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("store", "submit"),
	}
}

// CreateCategory uploads a new category. Any failure is recorded in
// ErrorCode/ErrorMessage and returned as an *apperr.Error.
func (s *Store) CreateCategory(ctx context.Context, in models.CategoryCreate) (models.CategoryCreated, error) {
	s.mu.Lock()
	s.loading = true
	s.code, s.msg = "", ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if !s.session.IsAuthenticated() || s.session.Token() == "" {
		return models.CategoryCreated{}, s.fail(apperr.New(apperr.KindClient, apperr.CodeUnauthorized, apperr.MsgUnauthorized))
	}

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create category rejected locally", "err", err)
		return models.CategoryCreated{}, s.fail(apperr.New(apperr.KindClient, apperr.CodeValidation, apperr.MsgValidation))
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.api.CreateCategory(cctx, s.session.Token(), in)
	if err != nil {
		e := apperr.ForSubmission(err)
		apperr.Report(s.log, "create category", err)
		if e.Kind == apperr.KindServerRejected && e.Status == 401 {
			s.log.Info("session rejected by backend, logging out")
			s.session.Logout(ctx)
		}
		return models.CategoryCreated{}, s.fail(e)
	}

	s.log.Info("category created", "id", out.ID, "name", out.Name)
	return out, nil
}

func (s *Store) fail(e *apperr.Error) error {
	s.mu.Lock()
	s.code, s.msg = e.Code, e.Message
	s.mu.Unlock()
	return e
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) ErrorCode() apperr.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.code
}

func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msg
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.code, s.msg = "", ""
	s.mu.Unlock()
}
