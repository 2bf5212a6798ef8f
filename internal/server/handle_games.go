package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geoquiz/internal/engine"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

type CreateGameRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=group solo training"`
	GroupID  string `json:"groupId" validate:"required_if=Mode group"`
	GameType string `json:"gameType" validate:"required_without=Country"`
	// Country is the pre-registry way to pick a country map.
	Country           string `json:"country,omitempty"`
	LocationsPerRound int    `json:"locationsPerRound" validate:"required,min=1,max=50"`
	TimeLimitSeconds  *int   `json:"timeLimitSeconds,omitempty" validate:"omitempty,min=1,max=3600"`
}

type GameResponse struct {
	ID                  string     `json:"id"`
	Mode                string     `json:"mode"`
	GroupID             string     `json:"groupId,omitempty"`
	OwnerID             string     `json:"ownerId"`
	GameType            string     `json:"gameType"`
	LocationsPerRound   int        `json:"locationsPerRound"`
	TimeLimitSeconds    *int       `json:"timeLimitSeconds,omitempty"`
	Status              string     `json:"status"`
	CurrentRound        int        `json:"currentRound"`
	LeaderboardRevealed bool       `json:"leaderboardRevealed"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

func gameResponse(g geoquiz.Game) GameResponse {
	return GameResponse{
		ID:                  g.ID,
		Mode:                string(g.Mode),
		GroupID:             g.GroupID,
		OwnerID:             g.OwnerID,
		GameType:            g.GameType,
		LocationsPerRound:   g.LocationsPerRound,
		TimeLimitSeconds:    g.TimeLimitSeconds,
		Status:              string(g.Status),
		CurrentRound:        g.CurrentRound,
		LeaderboardRevealed: g.LeaderboardRevealed,
		CreatedAt:           g.CreatedAt,
		CompletedAt:         g.CompletedAt,
	}
}

func handleCreateGame(logger *slog.Logger, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		g, err := eng.CreateGame(r.Context(), userFrom(r), engine.NewGame{
			Mode:              geoquiz.GameMode(req.Mode),
			GroupID:           req.GroupID,
			GameType:          req.GameType,
			Country:           req.Country,
			LocationsPerRound: req.LocationsPerRound,
			TimeLimitSeconds:  req.TimeLimitSeconds,
		})
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, gameResponse(g))
	}
}

type GuessDetail struct {
	Position    *Coordinates `json:"position,omitempty"`
	Distance    float64      `json:"distance"`
	Score       int          `json:"score"`
	TimedOut    bool         `json:"timedOut"`
	TimeSeconds *int         `json:"timeSeconds,omitempty"`
}

type SlotResponse struct {
	RoundID          string       `json:"roundId"`
	LocationIndex    int          `json:"locationIndex"`
	GameType         string       `json:"gameType"`
	TimeLimitSeconds *int         `json:"timeLimitSeconds,omitempty"`
	Guess            *GuessDetail `json:"guess,omitempty"`
	Target           *Coordinates `json:"target,omitempty"`
	LocationName     string       `json:"locationName,omitempty"`
}

type RoundResponse struct {
	RoundNumber int            `json:"roundNumber"`
	Complete    bool           `json:"complete"`
	Slots       []SlotResponse `json:"slots"`
}

type ProgressResponse struct {
	Game        GameResponse    `json:"game"`
	Role        string          `json:"role"`
	Points      int             `json:"points"`
	AllComplete bool            `json:"allComplete"`
	Rounds      []RoundResponse `json:"rounds"`
}

func handleGameProgress(logger *slog.Logger, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := eng.Progress(r.Context(), chi.URLParam(r, "gameID"), userFrom(r))
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		resp := ProgressResponse{
			Game:        gameResponse(p.Game),
			Role:        string(p.Role),
			Points:      p.Points,
			AllComplete: p.AllComplete,
			Rounds:      make([]RoundResponse, 0, len(p.Rounds)),
		}
		for _, rp := range p.Rounds {
			round := RoundResponse{RoundNumber: rp.RoundNumber, Complete: rp.Complete}
			for _, s := range rp.Slots {
				typeID := s.Round.EffectiveGameType(p.Game)
				space := spaceOf(eng.GameTypes(), typeID)
				slot := SlotResponse{
					RoundID:          s.Round.ID,
					LocationIndex:    s.Round.LocationIndex,
					GameType:         typeID,
					TimeLimitSeconds: s.TimeLimitSeconds,
					LocationName:     s.LocationName,
				}
				if s.Guess != nil {
					slot.Guess = guessDetail(*s.Guess, space)
				}
				if s.Target != nil {
					slot.Target = toCoordinates(*s.Target, space)
				}
				round.Slots = append(round.Slots, slot)
			}
			resp.Rounds = append(resp.Rounds, round)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func guessDetail(g geoquiz.Guess, space geoquiz.Space) *GuessDetail {
	d := &GuessDetail{
		Distance:    g.Distance,
		Score:       g.Score,
		TimedOut:    g.TimedOut(),
		TimeSeconds: g.TimeSeconds,
	}
	if g.Position != nil {
		d.Position = toCoordinates(*g.Position, space)
	}
	return d
}

type ReleaseRequest struct {
	// RoundNumber guards against double releases; 0 releases whatever is next.
	RoundNumber       int    `json:"roundNumber,omitempty" validate:"omitempty,min=1"`
	GameType          string `json:"gameType,omitempty"`
	LocationsPerRound int    `json:"locationsPerRound,omitempty" validate:"omitempty,min=1,max=50"`
	TimeLimitSeconds  *int   `json:"timeLimitSeconds,omitempty" validate:"omitempty,min=1,max=3600"`
}

type ReleasedSlot struct {
	RoundID          string `json:"roundId"`
	LocationIndex    int    `json:"locationIndex"`
	GameType         string `json:"gameType"`
	TimeLimitSeconds *int   `json:"timeLimitSeconds,omitempty"`
}

type ReleaseResponse struct {
	RoundNumber int            `json:"roundNumber"`
	Slots       []ReleasedSlot `json:"slots"`
}

func handleReleaseRound(logger *slog.Logger, eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReleaseRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		gameID := chi.URLParam(r, "gameID")
		rel, err := eng.ReleaseRound(r.Context(), gameID, userFrom(r), engine.ReleaseOptions{
			RoundNumber:       req.RoundNumber,
			GameType:          req.GameType,
			LocationsPerRound: req.LocationsPerRound,
			TimeLimitSeconds:  req.TimeLimitSeconds,
		})
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		resp := ReleaseResponse{RoundNumber: rel.RoundNumber, Slots: make([]ReleasedSlot, len(rel.Rounds))}
		for i, gr := range rel.Rounds {
			resp.Slots[i] = ReleasedSlot{
				RoundID:          gr.ID,
				LocationIndex:    gr.LocationIndex,
				GameType:         gr.GameType,
				TimeLimitSeconds: gr.TimeLimitSeconds,
			}
		}

		broker.Publish(GameEvent{Type: EventRoundReleased, GameID: gameID, RoundNumber: rel.RoundNumber})
		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleCompleteGame(logger *slog.Logger, eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if err := eng.CompleteGame(r.Context(), gameID, userFrom(r)); err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		g, _, err := eng.Game(r.Context(), gameID, userFrom(r))
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		broker.Publish(GameEvent{Type: EventGameCompleted, GameID: gameID})
		writeJSON(w, http.StatusOK, gameResponse(g))
	}
}

func handleRevealLeaderboard(logger *slog.Logger, eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if err := eng.RevealLeaderboard(r.Context(), gameID, userFrom(r)); err != nil {
			writeEngineError(w, r, logger, err)
			return
		}

		broker.Publish(GameEvent{Type: EventLeaderboardRevealed, GameID: gameID})
		w.WriteHeader(http.StatusNoContent)
	}
}

type LeaderboardResponse struct {
	GameID    string             `json:"gameId,omitempty"`
	Standings []geoquiz.Standing `json:"standings"`
}

func handleGameLeaderboard(logger *slog.Logger, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		s, err := eng.Standings(r.Context(), gameID, userFrom(r))
		if err != nil {
			writeEngineError(w, r, logger, err)
			return
		}
		if s == nil {
			s = []geoquiz.Standing{}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{GameID: gameID, Standings: s})
	}
}
