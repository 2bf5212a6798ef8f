package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/playperu/geoquiz/internal/handler/health"
)

// Request inputs document path, header and query parameters next to the
// JSON bodies they wrap.
type UserInput struct {
	UserID string `header:"X-User-ID" required:"true"`
}

type GameInput struct {
	UserInput
	GameID string `path:"gameID"`
}

type RoundInput struct {
	UserInput
	RoundID string `path:"roundID"`
}

type CreateGameInput struct {
	UserInput
	CreateGameRequest
}

type ReleaseInput struct {
	GameInput
	ReleaseRequest
}

type GuessInput struct {
	RoundInput
	GuessRequest
}

type GlobalLeaderboardInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "GeoQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoQuiz location guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of sqlite and redis.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/game-types
	getTypes, _ := r.NewOperationContext(http.MethodGet, "/api/game-types")
	getTypes.SetSummary("List game types")
	getTypes.SetDescription("Every playable map with its bounds, scoring scale and hint radius.")
	getTypes.AddRespStructure([]GameTypeItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTypes)

	// GET /api/leaderboard
	getGlobal, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getGlobal.SetSummary("Global leaderboard")
	getGlobal.SetDescription("Best players across all games. Equal totals share a rank.")
	getGlobal.AddReqStructure(GlobalLeaderboardInput{})
	getGlobal.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGlobal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getGlobal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getGlobal)

	// POST /api/games
	postGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGame.SetSummary("Create game")
	postGame.SetDescription("Creates a group, solo or training game. Group games need a group admin.")
	postGame.AddReqStructure(CreateGameInput{})
	postGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Game progress")
	getGame.SetDescription("Released rounds with the caller's guesses. Targets appear only for guessed slots.")
	getGame.AddReqStructure(GameInput{})
	getGame.AddRespStructure(ProgressResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{gameID}/rounds
	postRound, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/rounds")
	postRound.SetSummary("Release round")
	postRound.SetDescription("Draws the next round from locations this game has never used. Admin only.")
	postRound.AddReqStructure(ReleaseInput{})
	postRound.AddRespStructure(ReleaseResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRound.AddRespStructure(InsufficientLocationsResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postRound)

	// POST /api/games/{gameID}/complete
	postComplete, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/complete")
	postComplete.SetSummary("Complete game")
	postComplete.SetDescription("Ends the game. No further rounds or guesses are accepted. Admin only.")
	postComplete.AddReqStructure(GameInput{})
	postComplete.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postComplete)

	// POST /api/games/{gameID}/leaderboard/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/leaderboard/reveal")
	postReveal.SetSummary("Reveal leaderboard")
	postReveal.SetDescription("Shows standings to every player until the next round is released. Admin only.")
	postReveal.AddReqStructure(GameInput{})
	postReveal.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postReveal)

	// GET /api/games/{gameID}/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/leaderboard")
	getBoard.SetSummary("Game leaderboard")
	getBoard.SetDescription("Ranked totals for one game. Hidden from players until revealed.")
	getBoard.AddReqStructure(GameInput{})
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(getBoard)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events for round releases, guesses, reveals and completion. " +
		"Browsers may pass the user as the user query parameter.")
	getEvents.AddReqStructure(GameInput{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/rounds/{roundID}/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/rounds/{roundID}/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Scores a lat/lng (maps) or x/y (images) guess, or a timeout. One guess per slot.")
	postGuess.AddReqStructure(GuessInput{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGuess.AddRespStructure(DuplicateGuessResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postGuess)

	// GET /api/rounds/{roundID}/hint
	getHint, _ := r.NewOperationContext(http.MethodGet, "/api/rounds/{roundID}/hint")
	getHint.SetSummary("Hint circle")
	getHint.SetDescription("A circle that contains the target without centering on it.")
	getHint.AddReqStructure(RoundInput{})
	getHint.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getHint)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
