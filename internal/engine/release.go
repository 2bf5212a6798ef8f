package engine

import (
	"context"
	"fmt"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

type ReleaseOptions struct {
	// RoundNumber, when set, must be the next round; a stale value means
	// another release already won and yields ErrConflict.
	RoundNumber       int
	GameType          string
	LocationsPerRound int
	TimeLimitSeconds  *int
}

type Release struct {
	RoundNumber int
	Rounds      []geoquiz.GameRound
	Locations   []geoquiz.Location
}

// ReleaseRound draws the next round's locations from the pool of the
// effective game type, skipping every location already used by this game.
// Nothing is written when too few locations remain.
func (e *Engine) ReleaseRound(ctx context.Context, gameID, userID string, opts ReleaseOptions) (Release, error) {
	var rel Release

	err := e.store.WithTx(ctx, func(tx Tx) error {
		g, err := tx.Game(ctx, gameID)
		if err != nil {
			return err
		}
		if err := requireAdmin(ctx, tx, g, userID); err != nil {
			return err
		}
		if g.Status == geoquiz.GameStatusCompleted {
			return ErrGameCompleted
		}

		next := g.CurrentRound + 1
		if opts.RoundNumber != 0 && opts.RoundNumber != next {
			return fmt.Errorf("%w: round %d requested, next is %d", ErrConflict, opts.RoundNumber, next)
		}

		typeID := opts.GameType
		if typeID == "" {
			typeID = defaultGameType(g)
		}
		gt, err := e.gameType(typeID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidGame, err)
		}

		n := opts.LocationsPerRound
		if n == 0 {
			n = g.LocationsPerRound
		}
		if n < 1 {
			return fmt.Errorf("%w: locations per round must be at least 1", ErrInvalidGame)
		}

		picked, err := e.pick(ctx, tx, g.ID, gt.Pool(), n)
		if err != nil {
			return err
		}

		rounds := make([]geoquiz.GameRound, len(picked))
		for i, loc := range picked {
			rounds[i] = geoquiz.GameRound{
				GameID:           g.ID,
				RoundNumber:      next,
				LocationIndex:    i + 1,
				LocationID:       loc.ID,
				LocationSource:   loc.Pool.Source,
				GameType:         gt.ID,
				TimeLimitSeconds: opts.TimeLimitSeconds,
				CreatedAt:        e.now().UTC(),
			}
		}
		if err := tx.InsertRounds(ctx, rounds); err != nil {
			return err
		}
		if err := tx.AdvanceRound(ctx, g.ID, g.CurrentRound); err != nil {
			return err
		}

		rel = Release{RoundNumber: next, Rounds: rounds, Locations: picked}
		return nil
	})
	if err != nil {
		return Release{}, err
	}

	e.logger.Info("round released",
		"game_id", gameID,
		"round", rel.RoundNumber,
		"locations", len(rel.Rounds),
	)
	return rel, nil
}

// pick shuffles the unused locations of pool and takes the first n.
func (e *Engine) pick(ctx context.Context, tx Tx, gameID string, pool geoquiz.Pool, n int) ([]geoquiz.Location, error) {
	rounds, err := tx.Rounds(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	used := make(map[geoquiz.LocationRef]struct{}, len(rounds))
	for _, r := range rounds {
		used[r.LocationRef()] = struct{}{}
	}

	all, err := tx.PoolLocations(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("listing pool %s:%s: %w", pool.Source, pool.Key, err)
	}
	available := all[:0:0]
	for _, loc := range all {
		if _, ok := used[loc.Ref()]; !ok {
			available = append(available, loc)
		}
	}

	if len(available) < n {
		return nil, &InsufficientLocationsError{Required: n, Available: len(available)}
	}

	e.rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	return available[:n], nil
}
