package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tgilmour/broadside/internal/model"
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
	CodeNotRegistered = "NOT_REGISTERED"
	CodeEmptyName     = "EMPTY_NAME"
	CodeNameTaken     = "NAME_TAKEN"
	CodeRoomExists    = "ROOM_EXISTS"
	CodeRoomNotFound  = "ROOM_NOT_FOUND"
	CodeRoomFull      = "ROOM_FULL"
	CodeNotInRoom     = "NOT_IN_ROOM"
	CodeNoOpponent    = "NO_OPPONENT"
	CodeNoBoard       = "NO_BOARD"
	CodeInternalError = "INTERNAL_ERROR"
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

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotRegistered, "Connection is not registered"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Display name must not be empty"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Display name already in use"}}
	case errors.Is(err, model.ErrRoomExists):
		return &httpError{http.StatusConflict, APIError{CodeRoomExists, "Room already exists"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room already has two players"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusConflict, APIError{CodeNotInRoom, "Player is not in a room"}}
	case errors.Is(err, model.ErrNoOpponent):
		return &httpError{http.StatusConflict, APIError{CodeNoOpponent, "No opponent in the room"}}
	case errors.Is(err, model.ErrBoardNotFound):
		return &httpError{http.StatusConflict, APIError{CodeNoBoard, "Opponent has not placed ships"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}
