package engine

import (
	"context"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// Tx is the set of reads and writes the engine needs. Implementations return
// ErrNotFound for missing rows.
type Tx interface {
	Game(ctx context.Context, id string) (geoquiz.Game, error)
	CreateGame(ctx context.Context, g *geoquiz.Game) error
	// AdvanceRound bumps current_round from `from` to from+1 and hides the
	// leaderboard. It returns ErrConflict if the game is no longer at `from`.
	AdvanceRound(ctx context.Context, gameID string, from int) error
	SetLeaderboardRevealed(ctx context.Context, gameID string, revealed bool) error
	CompleteGame(ctx context.Context, gameID string) error

	// Rounds lists every round row of a game ordered by round and index.
	Rounds(ctx context.Context, gameID string) ([]geoquiz.GameRound, error)
	GameRound(ctx context.Context, id string) (geoquiz.GameRound, error)
	// InsertRounds assigns ids and returns ErrConflict if any slot or
	// location is already taken in the game.
	InsertRounds(ctx context.Context, rounds []geoquiz.GameRound) error

	// PoolLocations lists a pool ordered by id.
	PoolLocations(ctx context.Context, pool geoquiz.Pool) ([]geoquiz.Location, error)
	Location(ctx context.Context, ref geoquiz.LocationRef) (geoquiz.Location, error)

	Guess(ctx context.Context, roundID, userID string) (geoquiz.Guess, error)
	// InsertGuess assigns an id and returns ErrAlreadyGuessed on a duplicate.
	InsertGuess(ctx context.Context, g *geoquiz.Guess) error
	GuessesByUser(ctx context.Context, gameID, userID string) ([]geoquiz.Guess, error)
	GuessCount(ctx context.Context, gameID string) (int, error)
	GameTotals(ctx context.Context, gameID string) ([]geoquiz.Standing, error)

	MemberRole(ctx context.Context, groupID, userID string) (geoquiz.MemberRole, error)
}

// Store runs fn inside one transaction: either every write in fn is applied
// or none is.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// ScoreBoard caches standings. It is advisory: the store stays authoritative.
// Record must ignore a guess id it has already counted.
type ScoreBoard interface {
	Record(ctx context.Context, gameID, guessID, userID string, points int) error
	Rebuild(ctx context.Context, gameID string, totals []geoquiz.Standing) error
	Standings(ctx context.Context, gameID string) ([]geoquiz.Standing, error)
}
