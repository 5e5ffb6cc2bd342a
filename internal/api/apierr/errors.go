package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pinochle-score/internal/model"
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
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInvalidBid             = "INVALID_BID"
	CodeInvalidTricks          = "INVALID_TRICKS"
	CodeInvalidPlayer          = "INVALID_PLAYER"
	CodeInvalidSuit            = "INVALID_SUIT"
	CodeNoCurrentHand          = "NO_CURRENT_HAND"
	CodeGameNotFound           = "GAME_NOT_FOUND"
	CodeConcurrentUpdate       = "CONCURRENT_UPDATE"
	CodeNotFound               = "NOT_FOUND"
	CodeInternalError          = "INTERNAL_ERROR"
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

// StatusOf returns the HTTP status an error is reported with
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Rule violations carry the
// underlying message, which names the offending values.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrNoCurrentHand):
		return &httpError{http.StatusNotFound, APIError{CodeNoCurrentHand, "Game has no hand in play"}}
	case errors.Is(err, model.ErrInvalidStateTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidStateTransition, err.Error()}}
	case errors.Is(err, model.ErrInvalidBid):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBid, err.Error()}}
	case errors.Is(err, model.ErrInvalidTricks):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTricks, err.Error()}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayer, err.Error()}}
	case errors.Is(err, model.ErrInvalidSuit):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSuit, err.Error()}}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return &httpError{http.StatusConflict, APIError{CodeConcurrentUpdate, "Game was changed by another request, try again"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
