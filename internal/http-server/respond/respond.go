package respond

import (
	"encoding/json"
	"net/http"

	"storeadmin/internal/apperr"
)

type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	var b ErrorBody
	b.Error.Code = code
	b.Error.Message = msg
	WriteJSON(w, status, b)
}

// WriteReadError answers a failed backend read with the message the stores
// would show for it.
func WriteReadError(w http.ResponseWriter, err error, fallback string) {
	e := apperr.Classify(err)
	WriteError(w, statusForKind(e), e.Kind.String(), apperr.UserMessage(err, fallback))
}

// WriteSubmitError answers a failed write with its submission code.
func WriteSubmitError(w http.ResponseWriter, err error) {
	e := apperr.ForSubmission(err)
	WriteError(w, StatusForCode(e), string(e.Code), e.Message)
}

func StatusForCode(e *apperr.Error) int {
	switch e.Code {
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperr.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return statusForKind(e)
}

func statusForKind(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindServerRejected:
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadGateway
	case apperr.KindNoResponse:
		return http.StatusGatewayTimeout
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
