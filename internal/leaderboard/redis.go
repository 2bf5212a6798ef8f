// Package leaderboard caches per-game and global standings in Redis sorted
// sets. SQL stays authoritative; callers rebuild a game's cache whenever its
// guess count disagrees with the store.
package leaderboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const (
	keyPrefix = "geoquiz:"

	// GlobalKey aggregates points across every game.
	GlobalKey = keyPrefix + "global:scores"
)

func gameKey(gameID string) string     { return keyPrefix + "game:" + gameID + ":scores" }
func guessesKey(gameID string) string  { return keyPrefix + "game:" + gameID + ":guesses" }
func recordedKey(gameID string) string { return keyPrefix + "game:" + gameID + ":recorded" }

// recordScript counts a guess once: KEYS are recorded, game, guesses, global;
// ARGV are guess id, user id, points.
var recordScript = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("ZINCRBY", KEYS[2], ARGV[3], ARGV[2])
redis.call("HINCRBY", KEYS[3], ARGV[2], 1)
redis.call("ZINCRBY", KEYS[4], ARGV[3], ARGV[2])
return 1
`)

type Board struct {
	client *redis.Client
}

func New(client *redis.Client) *Board {
	return &Board{client: client}
}

// Record adds points for one guess to the game and global sets. Recording
// the same guess id again is a no-op.
func (b *Board) Record(ctx context.Context, gameID, guessID, userID string, points int) error {
	keys := []string{recordedKey(gameID), gameKey(gameID), guessesKey(gameID), GlobalKey}
	if err := recordScript.Run(ctx, b.client, keys, guessID, userID, points).Err(); err != nil {
		return fmt.Errorf("recording guess %s: %w", guessID, err)
	}
	return nil
}

// Rebuild replaces the game's cached totals. The global set is left alone
// since it cannot be recomputed from one game, and so is the set of recorded
// guess ids: a guess already counted stays counted.
func (b *Board) Rebuild(ctx context.Context, gameID string, totals []geoquiz.Standing) error {
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, gameKey(gameID), guessesKey(gameID))
	for _, t := range totals {
		pipe.ZAdd(ctx, gameKey(gameID), redis.Z{Score: float64(t.Points), Member: t.UserID})
		pipe.HSet(ctx, guessesKey(gameID), t.UserID, t.Guesses)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *Board) Standings(ctx context.Context, gameID string) ([]geoquiz.Standing, error) {
	s, err := b.top(ctx, gameKey(gameID), 0)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return s, nil
	}

	counts, err := b.client.HGetAll(ctx, guessesKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading guess counts: %w", err)
	}
	for i := range s {
		s[i].Guesses, _ = strconv.Atoi(counts[s[i].UserID])
	}
	return s, nil
}

// Global returns the top players across all games; limit <= 0 means all.
func (b *Board) Global(ctx context.Context, limit int) ([]geoquiz.Standing, error) {
	return b.top(ctx, GlobalKey, limit)
}

func (b *Board) top(ctx context.Context, key string, limit int) ([]geoquiz.Standing, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	zs, err := b.client.ZRevRangeWithScores(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	s := make([]geoquiz.Standing, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		s = append(s, geoquiz.Standing{UserID: member, Points: int(z.Score)})
	}
	geoquiz.AssignRanks(s)
	return s, nil
}

func (b *Board) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
