package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/geoquiz/internal/engine"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type InsufficientLocationsResponse struct {
	Error     string `json:"error"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

type DuplicateGuessResponse struct {
	Error     string `json:"error"`
	Duplicate bool   `json:"duplicate"`
}

func writeEngineError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var insufficient *engine.InsufficientLocationsError

	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, InsufficientLocationsResponse{
			Error:     insufficient.Error(),
			Required:  insufficient.Required,
			Available: insufficient.Available,
		})
	case errors.Is(err, engine.ErrAlreadyGuessed):
		writeJSON(w, http.StatusConflict, DuplicateGuessResponse{Error: err.Error(), Duplicate: true})
	case errors.Is(err, engine.ErrRoundNotReleased),
		errors.Is(err, engine.ErrGameCompleted),
		errors.Is(err, engine.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrUnauthorized),
		errors.Is(err, engine.ErrLeaderboardHidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, engine.ErrInvalidGame),
		errors.Is(err, engine.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
