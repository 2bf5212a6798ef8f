package engine

import (
	"context"
	"fmt"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/scoring"
)

type SlotProgress struct {
	Round            geoquiz.GameRound
	TimeLimitSeconds *int
	Guess            *geoquiz.Guess
	Target           *geoquiz.Point // only once guessed
	LocationName     string         // only once guessed
}

type RoundProgress struct {
	RoundNumber int
	Slots       []SlotProgress
	Complete    bool
}

type Progress struct {
	Game        geoquiz.Game
	Role        geoquiz.MemberRole
	Rounds      []RoundProgress
	Points      int
	AllComplete bool
}

// Progress reports the user's view of every released round.
func (e *Engine) Progress(ctx context.Context, gameID, userID string) (Progress, error) {
	var p Progress

	err := e.store.WithTx(ctx, func(tx Tx) error {
		g, err := tx.Game(ctx, gameID)
		if err != nil {
			return err
		}
		role, err := roleOf(ctx, tx, g, userID)
		if err != nil {
			return err
		}
		rounds, err := tx.Rounds(ctx, gameID)
		if err != nil {
			return fmt.Errorf("listing rounds: %w", err)
		}
		guesses, err := tx.GuessesByUser(ctx, gameID, userID)
		if err != nil {
			return fmt.Errorf("listing guesses: %w", err)
		}

		byRound := make(map[string]geoquiz.Guess, len(guesses))
		for _, gs := range guesses {
			byRound[gs.GameRoundID] = gs
		}
		done := completedRounds(rounds, guesses)

		p = Progress{Game: g, Role: role, AllComplete: true}
		for _, r := range rounds {
			if !g.Released(r.RoundNumber) {
				continue
			}
			if len(p.Rounds) == 0 || p.Rounds[len(p.Rounds)-1].RoundNumber != r.RoundNumber {
				p.Rounds = append(p.Rounds, RoundProgress{RoundNumber: r.RoundNumber, Complete: done[r.RoundNumber]})
				p.AllComplete = p.AllComplete && done[r.RoundNumber]
			}

			slot := SlotProgress{Round: r, TimeLimitSeconds: r.EffectiveTimeLimit(g)}
			if gs, ok := byRound[r.ID]; ok {
				loc, err := e.location(ctx, tx, r)
				if err != nil {
					return err
				}
				slot.Guess = &gs
				slot.Target = &loc.Position
				slot.LocationName = loc.Name
				p.Points += gs.Score
			}
			cur := &p.Rounds[len(p.Rounds)-1]
			cur.Slots = append(cur.Slots, slot)
		}
		if len(p.Rounds) == 0 {
			p.AllComplete = false
		}
		return nil
	})
	return p, err
}

// Hint places a hint circle around the round's target.
func (e *Engine) Hint(ctx context.Context, roundID, userID string) (scoring.Hint, error) {
	var target geoquiz.Point
	var gt geoquiz.GameType

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
		if gt, err = e.gameType(round.EffectiveGameType(g)); err != nil {
			return err
		}
		loc, err := e.location(ctx, tx, round)
		if err != nil {
			return err
		}
		target = loc.Position
		return nil
	})
	if err != nil {
		return scoring.Hint{}, err
	}
	return e.hints.Generate(target, gt), nil
}

// CompleteGame ends the game for good. Completing a completed game is a no-op.
func (e *Engine) CompleteGame(ctx context.Context, gameID, userID string) error {
	err := e.store.WithTx(ctx, func(tx Tx) error {
		g, err := tx.Game(ctx, gameID)
		if err != nil {
			return err
		}
		if err := requireAdmin(ctx, tx, g, userID); err != nil {
			return err
		}
		if g.Status == geoquiz.GameStatusCompleted {
			return nil
		}
		return tx.CompleteGame(ctx, gameID)
	})
	if err != nil {
		return err
	}
	e.logger.Info("game completed", "game_id", gameID)
	return nil
}

func (e *Engine) RevealLeaderboard(ctx context.Context, gameID, userID string) error {
	return e.store.WithTx(ctx, func(tx Tx) error {
		g, err := tx.Game(ctx, gameID)
		if err != nil {
			return err
		}
		if err := requireAdmin(ctx, tx, g, userID); err != nil {
			return err
		}
		return tx.SetLeaderboardRevealed(ctx, gameID, true)
	})
}

// Standings returns the game's ranked totals. Players other than admins only
// see them once revealed; completed games are always visible.
func (e *Engine) Standings(ctx context.Context, gameID, userID string) ([]geoquiz.Standing, error) {
	g, role, err := e.Game(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if role != geoquiz.RoleAdmin && !g.LeaderboardRevealed && g.Status != geoquiz.GameStatusCompleted {
		return nil, ErrLeaderboardHidden
	}

	if e.board != nil {
		s, fresh, err := e.cachedStandings(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if fresh {
			return s, nil
		}
	}

	totals, err := e.store.GameTotals(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("computing totals: %w", err)
	}
	geoquiz.AssignRanks(totals)

	if e.board != nil {
		if err := e.board.Rebuild(ctx, gameID, totals); err != nil {
			e.logger.Warn("rebuilding leaderboard cache", "game_id", gameID, "error", err)
		}
	}
	return totals, nil
}

// cachedStandings reads the board and reports whether it has seen exactly the
// guesses the store holds. A missed Record or a rebuild racing one leaves the
// counts apart until the next rebuild.
func (e *Engine) cachedStandings(ctx context.Context, gameID string) ([]geoquiz.Standing, bool, error) {
	s, err := e.board.Standings(ctx, gameID)
	if err != nil {
		e.logger.Warn("reading leaderboard cache", "game_id", gameID, "error", err)
		return nil, false, nil
	}
	if len(s) == 0 {
		return nil, false, nil
	}

	cached := 0
	for _, st := range s {
		cached += st.Guesses
	}
	stored, err := e.store.GuessCount(ctx, gameID)
	if err != nil {
		return nil, false, fmt.Errorf("counting guesses: %w", err)
	}
	if cached != stored {
		e.logger.Info("leaderboard cache out of date", "game_id", gameID, "cached", cached, "stored", stored)
		return nil, false, nil
	}
	return s, true, nil
}
