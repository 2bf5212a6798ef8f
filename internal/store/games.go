package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playperu/geoquiz/internal/engine"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

const gameColumns = `id, mode, COALESCE(group_id, ''), owner_id, game_type, country,
	locations_per_round, time_limit_seconds, status, current_round,
	leaderboard_revealed, created_at, completed_at`

func scanGame(row interface{ Scan(...any) error }) (geoquiz.Game, error) {
	var (
		g           geoquiz.Game
		timeLimit   sql.NullInt64
		createdAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&g.ID, &g.Mode, &g.GroupID, &g.OwnerID, &g.GameType, &g.Country,
		&g.LocationsPerRound, &timeLimit, &g.Status, &g.CurrentRound,
		&g.LeaderboardRevealed, &createdAt, &completedAt)
	if err != nil {
		return g, err
	}
	g.TimeLimitSeconds = intPtr(timeLimit)
	g.CreatedAt = parseTime(createdAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		g.CompletedAt = &t
	}
	return g, nil
}

func (s *queries) Game(ctx context.Context, id string) (geoquiz.Game, error) {
	g, err := scanGame(s.q.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	return g, notFound(err)
}

func (s *queries) CreateGame(ctx context.Context, g *geoquiz.Game) error {
	g.ID = newID()
	var groupID sql.NullString
	if g.GroupID != "" {
		groupID = sql.NullString{String: g.GroupID, Valid: true}
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO games (id, mode, group_id, owner_id, game_type, country,
			locations_per_round, time_limit_seconds, status, current_round,
			leaderboard_revealed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Mode, groupID, g.OwnerID, g.GameType, g.Country,
		g.LocationsPerRound, nullInt(g.TimeLimitSeconds), g.Status, g.CurrentRound,
		boolInt(g.LeaderboardRevealed), formatTime(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}
	return nil
}

func (s *queries) AdvanceRound(ctx context.Context, gameID string, from int) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE games SET current_round = current_round + 1, leaderboard_revealed = 0
		WHERE id = ? AND current_round = ? AND status = 'active'
	`, gameID, from)
	if err != nil {
		return fmt.Errorf("advancing round: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return engine.ErrConflict
	}
	return nil
}

func (s *queries) SetLeaderboardRevealed(ctx context.Context, gameID string, revealed bool) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE games SET leaderboard_revealed = ? WHERE id = ?`, boolInt(revealed), gameID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func (s *queries) CompleteGame(ctx context.Context, gameID string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE games SET status = 'completed', completed_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND status = 'active'
	`, gameID)
	return err
}

func (s *queries) MemberRole(ctx context.Context, groupID, userID string) (geoquiz.MemberRole, error) {
	var role geoquiz.MemberRole
	err := s.q.QueryRowContext(ctx,
		`SELECT role FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID,
	).Scan(&role)
	return role, notFound(err)
}

// AddMember adds or updates a group membership.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string, role geoquiz.MemberRole) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT (group_id, user_id) DO UPDATE SET role = excluded.role
	`, groupID, userID, role)
	return err
}
