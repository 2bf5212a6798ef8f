package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/scoring"
)

type Submission struct {
	Position *geoquiz.Point
	// Space is the coordinate space Position was given in; it must match the
	// round's game type.
	Space       geoquiz.Space
	Timeout     bool
	TimeSeconds *int
}

type GuessResult struct {
	Guess         geoquiz.Guess
	GameID        string
	RoundNumber   int
	GameType      geoquiz.GameType
	Target        geoquiz.Point
	RoundComplete bool
}

// SubmitGuess records the user's answer for one round slot. Timeouts carry no
// position and are charged the game type's penalty distance.
func (e *Engine) SubmitGuess(ctx context.Context, roundID, userID string, sub Submission) (GuessResult, error) {
	if sub.Timeout {
		sub.Position = nil
	} else if sub.Position == nil {
		return GuessResult{}, fmt.Errorf("%w: position required unless timed out", ErrInvalidGuess)
	}
	if sub.TimeSeconds != nil && *sub.TimeSeconds < 0 {
		return GuessResult{}, fmt.Errorf("%w: negative time", ErrInvalidGuess)
	}

	var res GuessResult

	err := e.store.WithTx(ctx, func(tx Tx) error {
		round, err := tx.GameRound(ctx, roundID)
		if err != nil {
			return err
		}
		g, err := tx.Game(ctx, round.GameID)
		if err != nil {
			return err
		}
		if _, err := roleOf(ctx, tx, g, userID); err != nil {
			return err
		}
		if !g.Released(round.RoundNumber) {
			return ErrRoundNotReleased
		}
		if g.Status == geoquiz.GameStatusCompleted {
			return ErrGameCompleted
		}

		switch _, err := tx.Guess(ctx, round.ID, userID); {
		case err == nil:
			return ErrAlreadyGuessed
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("checking previous guess: %w", err)
		}

		gt, err := e.gameType(round.EffectiveGameType(g))
		if err != nil {
			return err
		}
		if sub.Position != nil && sub.Space != gt.Space() {
			return fmt.Errorf("%w: %s position on a %s map", ErrInvalidGuess, sub.Space, gt.Space())
		}
		loc, err := e.location(ctx, tx, round)
		if err != nil {
			return err
		}

		scored := scoring.Evaluate(loc.Position, sub.Position, gt)
		guess := geoquiz.Guess{
			GameRoundID: round.ID,
			UserID:      userID,
			Position:    sub.Position,
			Distance:    scored.Distance,
			Score:       scored.Score,
			TimeSeconds: sub.TimeSeconds,
			CreatedAt:   e.now().UTC(),
		}
		if err := tx.InsertGuess(ctx, &guess); err != nil {
			return err
		}

		complete, err := roundComplete(ctx, tx, g.ID, userID, round.RoundNumber)
		if err != nil {
			return err
		}

		res = GuessResult{
			Guess:         guess,
			GameID:        g.ID,
			RoundNumber:   round.RoundNumber,
			GameType:      gt,
			Target:        loc.Position,
			RoundComplete: complete,
		}
		return nil
	})
	if err != nil {
		return GuessResult{}, err
	}

	if e.board != nil {
		if err := e.board.Record(ctx, res.GameID, res.Guess.ID, userID, res.Guess.Score); err != nil {
			e.logger.Warn("recording score on leaderboard", "game_id", res.GameID, "error", err)
		}
	}
	return res, nil
}

// location resolves the round's target and flags dangling references.
func (e *Engine) location(ctx context.Context, tx Tx, round geoquiz.GameRound) (geoquiz.Location, error) {
	loc, err := tx.Location(ctx, round.LocationRef())
	if errors.Is(err, ErrNotFound) {
		e.logger.Error("round references missing location",
			"game_id", round.GameID,
			"round_id", round.ID,
			"location_source", round.LocationSource,
			"location_id", round.LocationID,
		)
		return geoquiz.Location{}, ErrLocationNotFound
	}
	if err != nil {
		return geoquiz.Location{}, fmt.Errorf("loading location: %w", err)
	}
	return loc, nil
}

func roundComplete(ctx context.Context, tx Tx, gameID, userID string, n int) (bool, error) {
	rounds, err := tx.Rounds(ctx, gameID)
	if err != nil {
		return false, err
	}
	guesses, err := tx.GuessesByUser(ctx, gameID, userID)
	if err != nil {
		return false, err
	}
	return completedRounds(rounds, guesses)[n], nil
}

// completedRounds maps each round number to whether every slot has a guess.
func completedRounds(rounds []geoquiz.GameRound, guesses []geoquiz.Guess) map[int]bool {
	guessed := make(map[string]bool, len(guesses))
	for _, g := range guesses {
		guessed[g.GameRoundID] = true
	}
	done := make(map[int]bool)
	for _, r := range rounds {
		prev, seen := done[r.RoundNumber]
		done[r.RoundNumber] = guessed[r.ID] && (prev || !seen)
	}
	return done
}
