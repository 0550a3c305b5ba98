package handler

import (
	"net/http"

	"github.com/tallyhq/scorekeep/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeGameNotFound      = apierr.CodeGameNotFound
	CodeEmptyGameName     = apierr.CodeEmptyGameName
	CodeDuplicateGameName = apierr.CodeDuplicateGameName
	CodePlayerNotFound    = apierr.CodePlayerNotFound
	CodeEmptyPlayerName   = apierr.CodeEmptyPlayerName
	CodeNegativeScore     = apierr.CodeNegativeScore
	CodeNotesTooLong      = apierr.CodeNotesTooLong
	CodeNoScores          = apierr.CodeNoScores
	CodeStorageError      = apierr.CodeStorageError
	CodeInternalError     = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
