package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playperu/geoquiz/internal/engine"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

const guessColumns = `gs.id, gs.game_round_id, gs.user_id, gs.x, gs.y, gs.distance,
	gs.score, gs.time_seconds, gs.created_at`

func scanGuess(row interface{ Scan(...any) error }) (geoquiz.Guess, error) {
	var (
		g         geoquiz.Guess
		x, y      sql.NullFloat64
		timeSecs  sql.NullInt64
		createdAt string
	)
	err := row.Scan(&g.ID, &g.GameRoundID, &g.UserID, &x, &y, &g.Distance,
		&g.Score, &timeSecs, &createdAt)
	if err != nil {
		return g, err
	}
	if x.Valid && y.Valid {
		g.Position = &geoquiz.Point{X: x.Float64, Y: y.Float64}
	}
	g.TimeSeconds = intPtr(timeSecs)
	g.CreatedAt = parseTime(createdAt)
	return g, nil
}

func (s *queries) Guess(ctx context.Context, roundID, userID string) (geoquiz.Guess, error) {
	g, err := scanGuess(s.q.QueryRowContext(ctx, `
		SELECT `+guessColumns+` FROM guesses gs
		WHERE gs.game_round_id = ? AND gs.user_id = ?
	`, roundID, userID))
	return g, notFound(err)
}

func (s *queries) InsertGuess(ctx context.Context, g *geoquiz.Guess) error {
	g.ID = newID()
	var x, y sql.NullFloat64
	if g.Position != nil {
		x = sql.NullFloat64{Float64: g.Position.X, Valid: true}
		y = sql.NullFloat64{Float64: g.Position.Y, Valid: true}
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO guesses (id, game_round_id, user_id, x, y, distance, score, time_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.GameRoundID, g.UserID, x, y, g.Distance, g.Score,
		nullInt(g.TimeSeconds), formatTime(g.CreatedAt))
	if isUniqueViolation(err) {
		return engine.ErrAlreadyGuessed
	}
	if err != nil {
		return fmt.Errorf("inserting guess: %w", err)
	}
	return nil
}

func (s *queries) GuessesByUser(ctx context.Context, gameID, userID string) ([]geoquiz.Guess, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+guessColumns+` FROM guesses gs
		JOIN game_rounds r ON r.id = gs.game_round_id
		WHERE r.game_id = ? AND gs.user_id = ?
		ORDER BY r.round_number, r.location_index
	`, gameID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guesses []geoquiz.Guess
	for rows.Next() {
		g, err := scanGuess(rows)
		if err != nil {
			return nil, err
		}
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

// GuessCount counts every guess submitted in a game.
func (s *queries) GuessCount(ctx context.Context, gameID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM guesses gs
		JOIN game_rounds r ON r.id = gs.game_round_id
		WHERE r.game_id = ?
	`, gameID).Scan(&n)
	return n, err
}

// GameTotals sums every player's points in a game, unranked.
func (s *queries) GameTotals(ctx context.Context, gameID string) ([]geoquiz.Standing, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT gs.user_id, SUM(gs.score), COUNT(*)
		FROM guesses gs
		JOIN game_rounds r ON r.id = gs.game_round_id
		WHERE r.game_id = ?
		GROUP BY gs.user_id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []geoquiz.Standing
	for rows.Next() {
		var st geoquiz.Standing
		if err := rows.Scan(&st.UserID, &st.Points, &st.Guesses); err != nil {
			return nil, err
		}
		totals = append(totals, st)
	}
	return totals, rows.Err()
}
