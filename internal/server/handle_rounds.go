package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geoquiz/internal/engine"
)

type GuessRequest struct {
	Lat *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	X   *float64 `json:"x,omitempty" validate:"omitempty,min=0"`
	Y   *float64 `json:"y,omitempty" validate:"omitempty,min=0"`
	// Timeout submits the penalty guess; any position is ignored.
	Timeout     bool `json:"timeout,omitempty"`
	TimeSeconds *int `json:"timeSeconds,omitempty" validate:"omitempty,min=0"`
}

type GuessResponse struct {
	GuessID       string       `json:"guessId"`
	GameID        string       `json:"gameId"`
	RoundNumber   int          `json:"roundNumber"`
	Distance      float64      `json:"distance"`
	Score         int          `json:"score"`
	TimedOut      bool         `json:"timedOut"`
	Target        *Coordinates `json:"target"`
	RoundComplete bool         `json:"roundComplete"`
}

func handleSubmitGuess(logger *slog.Logger, eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sub := engine.Submission{Timeout: req.Timeout, TimeSeconds: req.TimeSeconds}
		if !req.Timeout {
			pos, space, err := Coordinates{Lat: req.Lat, Lng: req.Lng, X: req.X, Y: req.Y}.point()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			sub.Position, sub.Space = pos, space
		}

		user := userFrom(r)
		res, err := eng.SubmitGuess(r.Context(), chi.URLParam(r, "roundID"), user, sub)
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		broker.Publish(GameEvent{
			Type:          EventGuessSubmitted,
			GameID:        res.GameID,
			RoundNumber:   res.RoundNumber,
			UserID:        user,
			RoundComplete: res.RoundComplete,
		})
		writeJSON(w, http.StatusCreated, GuessResponse{
			GuessID:       res.Guess.ID,
			GameID:        res.GameID,
			RoundNumber:   res.RoundNumber,
			Distance:      res.Guess.Distance,
			Score:         res.Guess.Score,
			TimedOut:      res.Guess.TimedOut(),
			Target:        toCoordinates(res.Target, res.GameType.Space()),
			RoundComplete: res.RoundComplete,
		})
	}
}

type HintResponse struct {
	Center   *Coordinates `json:"center"`
	RadiusKm float64      `json:"radiusKm"`
}

func handleHint(logger *slog.Logger, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := eng.Hint(r.Context(), chi.URLParam(r, "roundID"), userFrom(r))
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, HintResponse{
			Center:   toCoordinates(h.Center, h.Space),
			RadiusKm: h.RadiusKm,
		})
	}
}
