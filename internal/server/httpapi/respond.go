package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
)

const (
	codeValidation       = "validation_error"
	codeInvalidFormat    = "invalid_format"
	codeUnauthorized     = "unauthorized"
	codeForbidden        = "forbidden"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeInvalidOperation = "invalid_operation"
	codeRateLimited      = "rate_limited"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

const maxBodyBytes = 1 << 20

// envelope is the body of every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg, Code: code})
}

// statusFor maps service errors onto HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidFormat):
		return http.StatusUnprocessableEntity, codeInvalidFormat
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, codeConflict
	case errors.Is(err, errs.ErrInvalidOperation):
		return http.StatusBadRequest, codeInvalidOperation
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, codeRateLimited
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// fail writes err as an error envelope. Internal errors are logged and
// replaced by a generic message.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	writeError(w, status, code, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", errs.ErrValidation)
	}
	return nil
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", errs.ErrValidation, name)
	}
	return id, nil
}

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, param), param)
}

// currentUser returns the caller set by Authenticate.
func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := UserIDFromCtx(r.Context())
	if !ok {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return id, nil
}
