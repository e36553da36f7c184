package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/captainsdeck/backend/internal/domain"
)

// ErrorResponse is the JSON envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respond writes v as JSON with the given status. A nil v writes only the
// status line.
func respond(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError maps a service error onto an HTTP status and error body.
// Unrecognized errors become an opaque 500 — the message is logged, never
// leaked to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respond(w, http.StatusNotFound, errorBody("not_found", unwrapMessage(err)))
	case errors.Is(err, domain.ErrGuestCount):
		respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", "guest count must be at least 1"))
	case errors.Is(err, domain.ErrValidation):
		respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrForbidden):
		respond(w, http.StatusForbidden, errorBody("forbidden", "captain role required"))
	case errors.Is(err, domain.ErrBadCredentials):
		respond(w, http.StatusUnauthorized, errorBody("bad_credentials", "wrong email or password"))
	case errors.Is(err, domain.ErrAuthDisabled):
		respond(w, http.StatusForbidden, errorBody("auth_disabled", "captain login is not configured"))
	case errors.Is(err, domain.ErrUnauthorized):
		respond(w, http.StatusUnauthorized, errorBody("unauthorized", "invalid session"))
	case errors.Is(err, domain.ErrUnavailable):
		respond(w, http.StatusServiceUnavailable, errorBody("upstream_unavailable", "upstream service unavailable"))
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		respond(w, http.StatusInternalServerError, errorBody("internal", "internal server error"))
	}
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// requestError rejects a request before it reaches the service layer
// (malformed body, bad path parameter).
func requestError(w http.ResponseWriter, message string) {
	respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: name is
// required" → "name is required". Errors without a tail keep the sentinel
// text itself.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrNotFound.Error(),
	} {
		if idx := strings.Index(msg, sentinel); idx != -1 {
			rest := strings.TrimPrefix(msg[idx+len(sentinel):], ": ")
			if rest != "" {
				return rest
			}
			return sentinel
		}
	}
	return msg
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
