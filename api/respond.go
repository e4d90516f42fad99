package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/bloggie/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with the given status code.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(apiErr).Str("cause", apiErr.GetFullError()).Msg("request failed")
	}

	if challenge := bearerChallenge(apiErr); challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	// Query failures carry driver messages with SQL in them; those stay in the log.
	if apiErr.Cause != nil && !errs.IsDatabaseQueryError(apiErr) {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}

// bearerChallenge builds the WWW-Authenticate value for token and role failures.
func bearerChallenge(err error) string {
	switch {
	case errs.IsInvalidTokenError(err):
		return `Bearer realm="bloggie", error="invalid_token"`
	case errs.IsMissingTokenError(err), errs.IsUnauthorized(err):
		return `Bearer realm="bloggie"`
	case errs.IsInsufficientRoleError(err):
		return `Bearer realm="bloggie", error="insufficient_scope"`
	}
	return ""
}

// Redirect sends the client to path with 303 See Other, so a form POST is followed by a GET.
func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, path string) {
	http.Redirect(w, req, path, http.StatusSeeOther)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
