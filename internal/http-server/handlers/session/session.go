package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/http-server/respond"
)

// Store is satisfied by *auth.Store.
type Store interface {
	Login(ctx context.Context, creds models.Credentials) bool
	Logout(ctx context.Context)
	IsAuthenticated() bool
	User() (models.User, bool)
	ErrorMessage() string
	LastError() error
}

type state struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

// NewHandler serves /session: GET reports, POST logs in, DELETE logs out.
func NewHandler(log *slog.Logger, st Store) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	current := func() state {
		s := state{Authenticated: st.IsAuthenticated()}
		if u, ok := st.User(); ok {
			s.User = &u
		}
		return s
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			log.Error("session handler misconfigured: store is nil")
			respond.WriteInternalError(w)
			return
		}

		switch r.Method {
		case http.MethodGet:
			respond.WriteJSON(w, 200, current())

		case http.MethodPost:
			var creds models.Credentials
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&creds); err != nil {
				respond.WriteError(w, 400, "bad_request", "JSON body with email and password expected")
				return
			}
			if !st.Login(r.Context(), creds) {
				status, code := loginFailure(st.LastError())
				respond.WriteError(w, status, code, st.ErrorMessage())
				return
			}
			respond.WriteJSON(w, 200, current())

		case http.MethodDelete:
			st.Logout(r.Context())
			w.WriteHeader(http.StatusNoContent)

		default:
			respond.WriteError(w, 405, "method_not_allowed", "GET, POST or DELETE only")
		}
	}
}

// loginFailure tells rejected credentials apart from a backend that could not
// be reached.
func loginFailure(err error) (int, string) {
	if err == nil {
		return http.StatusUnauthorized, string(apperr.CodeUnauthorized)
	}
	e := apperr.Classify(err)
	if e.Code == apperr.CodeValidation {
		return http.StatusUnprocessableEntity, string(apperr.CodeValidation)
	}
	switch e.Kind {
	case apperr.KindServerRejected:
		if e.Status >= 500 {
			return http.StatusBadGateway, string(apperr.HTTPCode(e.Status))
		}
		return http.StatusUnauthorized, string(apperr.CodeUnauthorized)
	case apperr.KindNoResponse:
		return http.StatusServiceUnavailable, string(apperr.CodeNoResponse)
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable, string(apperr.CodeNetworkError)
	default:
		return http.StatusInternalServerError, string(apperr.CodeClientError)
	}
}
