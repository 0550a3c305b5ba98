package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeEmptyGameName     = "EMPTY_GAME_NAME"
	CodeDuplicateGameName = "DUPLICATE_GAME_NAME"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeEmptyPlayerName   = "EMPTY_PLAYER_NAME"
	CodeNegativeScore     = "NEGATIVE_SCORE"
	CodeNotesTooLong      = "NOTES_TOO_LONG"
	CodeNoScores          = "NO_SCORES"
	CodeStorageError      = "STORAGE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrEmptyGameName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyGameName, "Game name must not be empty"}}
	case errors.Is(err, model.ErrDuplicateGameName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateGameName, "A game with this name already exists"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrEmptyPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyPlayerName, "Player name must not be empty"}}
	case errors.Is(err, model.ErrNegativeScore):
		return &httpError{http.StatusBadRequest, APIError{CodeNegativeScore, "Score value must not be negative"}}
	case errors.Is(err, model.ErrNotesTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeNotesTooLong, "Notes must be 100 characters or fewer"}}
	case errors.Is(err, model.ErrNoScores):
		return &httpError{http.StatusNotFound, APIError{CodeNoScores, "Player has no scores in this game"}}
	case errors.Is(err, storage.ErrInvalidBackup):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewStorageError creates an error indicating the storage backend failed
func NewStorageError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageError, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
