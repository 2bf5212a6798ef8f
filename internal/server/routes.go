package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/geoquiz/internal/engine"
)

func addRoutes(r chi.Router, logger *slog.Logger, eng *engine.Engine, board GlobalBoard, broker *Broker) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoQuiz API", "/openapi.json", "/docs"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/game-types", handleGameTypes(eng.GameTypes()))
		r.Get("/leaderboard", handleGlobalLeaderboard(logger, board))

		// Player routes: every caller is identified by X-User-ID.
		r.Group(func(r chi.Router) {
			r.Use(userMiddleware)

			r.Post("/games", handleCreateGame(logger, eng))
			r.Route("/games/{gameID}", func(r chi.Router) {
				r.Get("/", handleGameProgress(logger, eng))
				r.Get("/leaderboard", handleGameLeaderboard(logger, eng))
				r.Get("/events", handleEvents(logger, eng, broker))

				// Admin-only; the engine checks the caller's role.
				r.Post("/rounds", handleReleaseRound(logger, eng, broker))
				r.Post("/complete", handleCompleteGame(logger, eng, broker))
				r.Post("/leaderboard/reveal", handleRevealLeaderboard(logger, eng, broker))
			})

			r.Post("/rounds/{roundID}/guess", handleSubmitGuess(logger, eng, broker))
			r.Get("/rounds/{roundID}/hint", handleHint(logger, eng))
		})
	})
}
