// Package engine drives games through their rounds: it releases rounds from
// the unused locations of a pool, accepts guesses for released rounds, tracks
// per-player completion and ends games. All multi-step invariants run inside
// a single Store transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/scoring"
)

type Engine struct {
	store  Store
	types  *geoquiz.Registry
	rnd    geoquiz.Rand
	hints  *scoring.HintGenerator
	board  ScoreBoard
	logger *slog.Logger
	now    func() time.Time
}

// New wires an engine. board may be nil, in which case standings are computed
// from the store on every request.
func New(store Store, types *geoquiz.Registry, rnd geoquiz.Rand, board ScoreBoard, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		types:  types,
		rnd:    rnd,
		hints:  scoring.NewHintGenerator(rnd),
		board:  board,
		logger: logger,
		now:    time.Now,
	}
}

func (e *Engine) GameTypes() *geoquiz.Registry { return e.types }

type NewGame struct {
	Mode              geoquiz.GameMode
	GroupID           string
	GameType          string
	Country           string
	LocationsPerRound int
	TimeLimitSeconds  *int
}

func (e *Engine) CreateGame(ctx context.Context, userID string, req NewGame) (geoquiz.Game, error) {
	if userID == "" {
		return geoquiz.Game{}, ErrUnauthorized
	}
	if !req.Mode.Valid() {
		return geoquiz.Game{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidGame, req.Mode)
	}
	if req.GameType == "" && req.Country != "" {
		req.GameType = "country:" + req.Country
	}
	if _, ok := e.types.Lookup(req.GameType); !ok {
		return geoquiz.Game{}, fmt.Errorf("%w: %w %q", ErrInvalidGame, scoring.ErrUnknownGameType, req.GameType)
	}
	if req.LocationsPerRound < 1 {
		return geoquiz.Game{}, fmt.Errorf("%w: locations per round must be at least 1", ErrInvalidGame)
	}
	if req.TimeLimitSeconds != nil && *req.TimeLimitSeconds < 1 {
		return geoquiz.Game{}, fmt.Errorf("%w: time limit must be positive", ErrInvalidGame)
	}
	switch req.Mode {
	case geoquiz.ModeGroup:
		if req.GroupID == "" {
			return geoquiz.Game{}, fmt.Errorf("%w: group games need a group", ErrInvalidGame)
		}
	default:
		if req.GroupID != "" {
			return geoquiz.Game{}, fmt.Errorf("%w: %s games cannot belong to a group", ErrInvalidGame, req.Mode)
		}
	}

	g := geoquiz.Game{
		Mode:              req.Mode,
		GroupID:           req.GroupID,
		OwnerID:           userID,
		GameType:          req.GameType,
		Country:           req.Country,
		LocationsPerRound: req.LocationsPerRound,
		TimeLimitSeconds:  req.TimeLimitSeconds,
		Status:            geoquiz.GameStatusActive,
		CreatedAt:         e.now().UTC(),
	}

	err := e.store.WithTx(ctx, func(tx Tx) error {
		if g.Mode == geoquiz.ModeGroup {
			role, err := tx.MemberRole(ctx, g.GroupID, userID)
			if errors.Is(err, ErrNotFound) || (err == nil && role != geoquiz.RoleAdmin) {
				return ErrUnauthorized
			}
			if err != nil {
				return err
			}
		}
		return tx.CreateGame(ctx, &g)
	})
	if err != nil {
		return geoquiz.Game{}, err
	}

	e.logger.Info("game created", "game_id", g.ID, "mode", g.Mode, "game_type", g.GameType)
	return g, nil
}

// Game returns a game the user may see.
func (e *Engine) Game(ctx context.Context, gameID, userID string) (geoquiz.Game, geoquiz.MemberRole, error) {
	g, err := e.store.Game(ctx, gameID)
	if err != nil {
		return geoquiz.Game{}, "", err
	}
	role, err := roleOf(ctx, e.store, g, userID)
	if err != nil {
		return geoquiz.Game{}, "", err
	}
	return g, role, nil
}

// roleOf resolves what userID may do in g: group games defer to group
// membership, solo and training games only admit their owner.
func roleOf(ctx context.Context, tx Tx, g geoquiz.Game, userID string) (geoquiz.MemberRole, error) {
	if userID == "" {
		return "", ErrUnauthorized
	}
	if g.Mode != geoquiz.ModeGroup {
		if g.OwnerID != userID {
			return "", ErrUnauthorized
		}
		return geoquiz.RoleAdmin, nil
	}

	role, err := tx.MemberRole(ctx, g.GroupID, userID)
	if errors.Is(err, ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("looking up membership: %w", err)
	}
	return role, nil
}

func requireAdmin(ctx context.Context, tx Tx, g geoquiz.Game, userID string) error {
	role, err := roleOf(ctx, tx, g, userID)
	if err != nil {
		return err
	}
	if role != geoquiz.RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) gameType(id string) (geoquiz.GameType, error) {
	gt, ok := e.types.Lookup(id)
	if !ok {
		return geoquiz.GameType{}, fmt.Errorf("%w %q", scoring.ErrUnknownGameType, id)
	}
	return gt, nil
}

// defaultGameType is the type rounds use when the release names none.
func defaultGameType(g geoquiz.Game) string {
	return geoquiz.GameRound{}.EffectiveGameType(g)
}
