package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jlindh/ordgrid/internal/model"
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
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidLetter       = "INVALID_LETTER"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeWrongPhase          = "WRONG_PHASE"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeOutOfBounds         = "OUT_OF_BOUNDS"
	CodeLetterUnavailable   = "LETTER_UNAVAILABLE"
	CodeAlreadyConfirmed    = "ALREADY_CONFIRMED"
	CodeNoPendingPlacement  = "NO_PENDING_PLACEMENT"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeGridNotFound        = "GRID_NOT_FOUND"
	CodeGameFinished        = "GAME_FINISHED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeTooManyPlayers      = "TOO_MANY_PLAYERS"
	CodeInternalError       = "INTERNAL_ERROR"
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
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGridNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGridNotFound, "Grid not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not in game"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrTooManyPlayers):
		return &httpError{http.StatusConflict, APIError{CodeTooManyPlayers, "Too many players for game settings"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn to select"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Operation not valid in current phase"}}
	case errors.Is(err, model.ErrInvalidLetter):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLetter, "Letter is not in the alphabet"}}
	case errors.Is(err, model.ErrLetterUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeLetterUnavailable, "Letter is exhausted from the pool"}}
	case errors.Is(err, model.ErrOutOfBounds):
		return &httpError{http.StatusBadRequest, APIError{CodeOutOfBounds, "Coordinates outside the grid"}}
	case errors.Is(err, model.ErrCellOccupied):
		return &httpError{http.StatusConflict, APIError{CodeCellOccupied, "Cell is already occupied"}}
	case errors.Is(err, model.ErrAlreadyConfirmed):
		return &httpError{http.StatusForbidden, APIError{CodeAlreadyConfirmed, "Placement already confirmed this round"}}
	case errors.Is(err, model.ErrNoPendingPlacement):
		return &httpError{http.StatusConflict, APIError{CodeNoPendingPlacement, "No pending placement to confirm"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
