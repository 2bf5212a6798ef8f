package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInsufficientLocations = errors.New("insufficient locations")
	ErrRoundNotReleased      = errors.New("round not yet released")
	ErrAlreadyGuessed        = errors.New("already guessed")
	ErrUnauthorized          = errors.New("not authorized for this game")
	ErrLocationNotFound      = errors.New("round references a missing location")
	ErrGameCompleted         = errors.New("game is completed")
	ErrLeaderboardHidden     = errors.New("leaderboard not revealed")
	ErrInvalidGuess          = errors.New("invalid guess")
	ErrInvalidGame           = errors.New("invalid game")

	// ErrConflict reports a lost race: another release already took the round.
	ErrConflict = errors.New("conflicting update")
)

// InsufficientLocationsError is returned when a round cannot be filled from
// the unused locations of its pool. It matches ErrInsufficientLocations.
type InsufficientLocationsError struct {
	Required  int
	Available int
}

func (e *InsufficientLocationsError) Error() string {
	return fmt.Sprintf("insufficient locations: %d required, %d available", e.Required, e.Available)
}

func (e *InsufficientLocationsError) Is(target error) bool {
	return target == ErrInsufficientLocations
}
