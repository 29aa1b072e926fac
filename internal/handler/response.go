// Package handler contains the HTTP layer: request parsing, DTO validation,
// and the single place where domain errors become status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/snippet-share/internal/apperror"
)

// validate is the shared validator instance; the Validate struct tags on the
// request DTOs drive the schema checks.
var validate = validator.New()

// ErrorResponse is the uniform failure body: every error, whatever the
// status, is `{"message": "..."}`.
type ErrorResponse struct {
	Message string `json:"message"`
}

// messageResponse is the uniform confirmation body for mutations that don't
// echo the resource back.
type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON decodes the request body into dst and runs the validator
// against it. Malformed JSON, an unknown key, and a failed validate tag are
// all the same schema-validation error to the client. Unknown keys are
// rejected rather than silently dropped — otherwise a request mixing a
// supported field with a misspelled one would partially apply.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return apperror.ValidationFailed("body", "request body contains an unsupported field")
		}
		return apperror.ValidationFailed("body", "request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			f := fieldErrs[0]
			return apperror.ValidationFailed(f.Field(),
				"invalid or missing field: "+f.Field())
		}
		return apperror.ValidationFailed("body", "request body failed validation")
	}
	return nil
}

// writeJSON sends data with the given status. Headers must be set before the
// first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError is the error mapper: the one place domain error kinds become
// HTTP status codes. errors.Is walks the wrap chain, so a service error like
// fmt.Errorf("creating snippet: %w", apperror.Conflict(...)) still matches.
//
// Anything that isn't a typed kind gets a generic 500 — raw error text can
// carry SQL fragments or file paths and must never reach a client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, ErrorResponse{Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: "An internal error occurred",
	})
}
