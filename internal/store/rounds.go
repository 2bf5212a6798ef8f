package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playperu/geoquiz/internal/engine"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

const roundColumns = `id, game_id, round_number, location_index, location_id,
	location_source, game_type, time_limit_seconds, created_at`

func scanRound(row interface{ Scan(...any) error }) (geoquiz.GameRound, error) {
	var (
		r         geoquiz.GameRound
		timeLimit sql.NullInt64
		createdAt string
	)
	err := row.Scan(&r.ID, &r.GameID, &r.RoundNumber, &r.LocationIndex, &r.LocationID,
		&r.LocationSource, &r.GameType, &timeLimit, &createdAt)
	if err != nil {
		return r, err
	}
	r.TimeLimitSeconds = intPtr(timeLimit)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func (s *queries) GameRound(ctx context.Context, id string) (geoquiz.GameRound, error) {
	r, err := scanRound(s.q.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM game_rounds WHERE id = ?`, id))
	return r, notFound(err)
}

func (s *queries) Rounds(ctx context.Context, gameID string) ([]geoquiz.GameRound, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+roundColumns+` FROM game_rounds
		WHERE game_id = ?
		ORDER BY round_number, location_index
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []geoquiz.GameRound
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func (s *queries) InsertRounds(ctx context.Context, rounds []geoquiz.GameRound) error {
	for i := range rounds {
		r := &rounds[i]
		r.ID = newID()
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO game_rounds (id, game_id, round_number, location_index, location_id,
				location_source, game_type, time_limit_seconds, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.GameID, r.RoundNumber, r.LocationIndex, r.LocationID,
			r.LocationSource, r.GameType, nullInt(r.TimeLimitSeconds), formatTime(r.CreatedAt))
		if isUniqueViolation(err) {
			return engine.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("inserting round %d slot %d: %w", r.RoundNumber, r.LocationIndex, err)
		}
	}
	return nil
}
