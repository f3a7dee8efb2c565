// Package apperr sorts failures of backend calls into the few kinds the stores
// react to and turns them into the messages shown to the operator.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"

	"storeadmin/internal/apis/backend/endpoints"
	"storeadmin/internal/client/transport"
)

type Kind int

const (
	// local failure that is none of the below
	KindClient Kind = iota
	// the backend answered, and not with success
	KindServerRejected
	// the request left but no answer came back
	KindNoResponse
	// the request could not be built
	KindRequestSetup
	// the circuit breaker refused to send the request
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindServerRejected:
		return "server_rejected"
	case KindNoResponse:
		return "no_response"
	case KindRequestSetup:
		return "request_setup"
	case KindUnavailable:
		return "unavailable"
	default:
		return "client"
	}
}

type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeFileTooLarge Code = "FILE_TOO_LARGE"
	CodeNoResponse   Code = "NO_RESPONSE"
	CodeRequestError Code = "REQUEST_ERROR"
	CodeClientError  Code = "CLIENT_ERROR"
	CodeNetworkError Code = "NETWORK_ERROR"
	CodeUnknown      Code = "UNKNOWN_ERROR"
)

// HTTPCode is the code of a rejected write whose payload named none.
func HTTPCode(status int) Code { return Code(fmt.Sprintf("HTTP_%d", status)) }

const (
	MsgNoResponse    = "Сервер не отвечает. Проверьте подключение к интернету."
	MsgUnexpected    = "Произошла непредвиденная ошибка"
	MsgUnauthorized  = "Необходима авторизация. Пожалуйста, войдите в систему."
	MsgForbidden     = "Доступ запрещен. Недостаточно прав."
	MsgValidation    = "Ошибка валидации данных. Проверьте введенные данные."
	MsgFileTooLarge  = "Размер файла слишком большой"
	MsgNoConnection  = "Не удалось подключиться к серверу. Проверьте соединение."
	MsgCreateFailed  = "Произошла ошибка при создании категории"
	MsgCreateUnknown = "Неизвестная ошибка при создании категории"

	MsgLoadCategories = "Ошибка загрузки категорий"
	MsgLoadCategory   = "Ошибка загрузки категории"
	MsgLoadItems      = "Ошибка загрузки товаров"
	MsgLogin          = "Ошибка авторизации"
)

type Error struct {
	Kind Kind
	// set for submission failures only
	Code Code
	// HTTP status when the backend answered
	Status int
	// server supplied text, or the user-facing text once mapped
	Message string
	Body    string
	// 2xx answer with a non-zero application code
	Business bool
	Err      error
}

func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " status=%d", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil && e.Message == "" {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps err onto a Kind. It never returns nil for a non-nil err.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var apiErr *endpoints.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:     KindServerRejected,
			Status:   apiErr.Status,
			Message:  apiErr.Message,
			Body:     apiErr.Body,
			Business: apiErr.Business,
			Code:     Code(apiErr.Code),
			Err:      err,
		}
	}

	var reqErr *endpoints.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: KindRequestSetup, Message: reqErr.Err.Error(), Err: err}
	}

	if errors.Is(err, transport.ErrCircuitOpen) {
		return &Error{Kind: KindUnavailable, Err: err}
	}

	// *url.Error is itself a net.Error, so it is looked at first
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if refusedBeforeDial(uerr.Err) {
			return &Error{Kind: KindRequestSetup, Message: uerr.Err.Error(), Err: err}
		}
		return &Error{Kind: KindNoResponse, Err: err}
	}

	if isNoResponse(err) {
		return &Error{Kind: KindNoResponse, Err: err}
	}

	return &Error{Kind: KindClient, Err: err}
}

// net/http reports these as untyped errors from Client.Do.
func refusedBeforeDial(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unsupported protocol scheme") || strings.Contains(msg, "no Host in request URL")
}

func isNoResponse(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// UserMessage is the text a read store shows for err: the server message when
// the backend rejected the call (fallback if it sent none), fixed texts
// otherwise.
func UserMessage(err error, fallback string) string {
	e := Classify(err)
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindServerRejected:
		return orString(e.Message, fallback)
	case KindNoResponse, KindUnavailable:
		return MsgNoResponse
	default:
		return MsgUnexpected
	}
}

// ForSubmission refines err into the code and message of a failed write. An
// *Error that already carries a code is returned unchanged.
func ForSubmission(err error) *Error {
	var done *Error
	if errors.As(err, &done) && done.Code != "" {
		return done
	}

	e := Classify(err)
	if e == nil {
		return nil
	}

	out := &Error{Kind: e.Kind, Status: e.Status, Body: e.Body, Business: e.Business, Err: err}

	switch e.Kind {
	case KindServerRejected:
		if e.Business {
			out.Code = orCode(e.Code, CodeUnknown)
			out.Message = orString(e.Message, MsgCreateUnknown)
			return out
		}
		out.Code = orCode(e.Code, HTTPCode(e.Status))
		out.Message = orString(e.Message, fmt.Sprintf("Ошибка сервера: %d", e.Status))
		switch e.Status {
		case 401:
			out.Code, out.Message = CodeUnauthorized, MsgUnauthorized
		case 403:
			out.Code, out.Message = CodeForbidden, MsgForbidden
		case 422:
			out.Code, out.Message = CodeValidation, MsgValidation
		case 413:
			out.Code, out.Message = CodeFileTooLarge, MsgFileTooLarge
		}
	case KindNoResponse:
		out.Code, out.Message = CodeNoResponse, MsgNoConnection
	case KindRequestSetup:
		out.Code, out.Message = CodeRequestError, "Ошибка запроса: "+e.Message
	case KindUnavailable:
		out.Code, out.Message = CodeNetworkError, MsgCreateFailed
	default:
		out.Code = CodeClientError
		out.Message = orString(errText(e.Err), MsgCreateFailed)
	}
	return out
}

// Report writes the developer side of a failure to log.
func Report(log *slog.Logger, op string, err error) {
	if log == nil {
		log = slog.Default()
	}
	e := Classify(err)
	if e == nil {
		return
	}

	attrs := []any{"op", op, "kind", e.Kind.String(), "err", err}
	switch e.Kind {
	case KindServerRejected:
		attrs = append(attrs, "status", e.Status, "code", string(e.Code), "body", snippet(e.Body))
		log.Error("api error", attrs...)
	case KindNoResponse, KindUnavailable:
		log.Warn("network error", attrs...)
	case KindRequestSetup:
		log.Error("request setup error", attrs...)
	default:
		log.Error("client error", attrs...)
	}
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1024 {
		return s[:1024]
	}
	return s
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func orCode(c, def Code) Code {
	if c != "" {
		return c
	}
	return def
}

func orString(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
