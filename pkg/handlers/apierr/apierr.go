// Package apierr writes JSON error responses.
package apierr

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tutorapp/tutorapp/pkg/models/api"
	"github.com/tutorapp/tutorapp/pkg/validation"
)

const (
	MsgValidationFailed = "validation failed"
	MsgInvalidBody      = "invalid request body"
	MsgUnauthorized     = "missing or invalid bearer token"
	MsgForbidden        = "not allowed to access this tutor's revenue"
	MsgInternal         = "internal server error"
	MsgTooManyRequests  = "too many requests"
)

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}

func Write(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSON(w, r, status, api.ErrorResponse{Error: msg})
}

func Validation(w http.ResponseWriter, r *http.Request, err *validation.Error) {
	WriteJSON(w, r, http.StatusBadRequest, api.ErrorResponse{
		Error:   MsgValidationFailed,
		Details: err.Fields,
	})
}
