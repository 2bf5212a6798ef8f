package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/scoring"
)

type BoundsResponse struct {
	Min *Coordinates `json:"min"`
	Max *Coordinates `json:"max"`
}

type GameTypeItem struct {
	ID                     string          `json:"id"`
	Kind                   string          `json:"kind"`
	Name                   string          `json:"name"`
	Space                  string          `json:"space"`
	Bounds                 *BoundsResponse `json:"bounds,omitempty"`
	ScoreScaleFactor       float64         `json:"scoreScaleFactor"`
	TimeoutPenaltyDistance float64         `json:"timeoutPenaltyDistance"`
	HintRadiusKm           float64         `json:"hintRadiusKm"`
}

func handleGameTypes(types *geoquiz.Registry) http.HandlerFunc {
	all := types.All()
	items := make([]GameTypeItem, len(all))
	for i, gt := range all {
		items[i] = GameTypeItem{
			ID:                     gt.ID,
			Kind:                   string(gt.Kind),
			Name:                   gt.Name,
			Space:                  gt.Space().String(),
			ScoreScaleFactor:       gt.ScoreScaleFactor,
			TimeoutPenaltyDistance: gt.TimeoutPenaltyDistance,
			HintRadiusKm:           scoring.HintRadius(gt),
		}
		if gt.Bounds != nil {
			items[i].Bounds = &BoundsResponse{
				Min: toCoordinates(gt.Bounds.Min, gt.Space()),
				Max: toCoordinates(gt.Bounds.Max, gt.Space()),
			}
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, items)
	}
}

// GlobalBoard lists the best players across all games.
type GlobalBoard interface {
	Global(ctx context.Context, limit int) ([]geoquiz.Standing, error)
}

const (
	defaultGlobalLimit = 10
	maxGlobalLimit     = 100
)

func handleGlobalLeaderboard(logger *slog.Logger, board GlobalBoard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
			return
		}

		limit := defaultGlobalLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxGlobalLimit {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		s, err := board.Global(r.Context(), limit)
		if err != nil {
			logger.Error("reading global leaderboard", "error", err)
			writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
			return
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Standings: s})
	}
}
