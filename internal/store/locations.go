package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const locationColumns = `id, source, pool_key, name, names, x, y, difficulty, created_at`

func scanLocation(row interface{ Scan(...any) error }) (geoquiz.Location, error) {
	var (
		l         geoquiz.Location
		names     string
		createdAt string
	)
	err := row.Scan(&l.ID, &l.Pool.Source, &l.Pool.Key, &l.Name, &names,
		&l.Position.X, &l.Position.Y, &l.Difficulty, &createdAt)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal([]byte(names), &l.Names); err != nil {
		return l, fmt.Errorf("decoding names of %s: %w", l.ID, err)
	}
	l.CreatedAt = parseTime(createdAt)
	return l, nil
}

func (s *queries) PoolLocations(ctx context.Context, pool geoquiz.Pool) ([]geoquiz.Location, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+locationColumns+` FROM locations
		WHERE source = ? AND pool_key = ?
		ORDER BY id
	`, pool.Source, pool.Key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []geoquiz.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

func (s *queries) Location(ctx context.Context, ref geoquiz.LocationRef) (geoquiz.Location, error) {
	l, err := scanLocation(s.q.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE source = ? AND id = ?`, ref.Source, ref.ID))
	return l, notFound(err)
}

// AddLocation inserts a location into its pool, generating an id if empty.
func (s *SQLiteStore) AddLocation(ctx context.Context, l *geoquiz.Location) error {
	if !l.Pool.Source.Valid() {
		return fmt.Errorf("unknown location source %q", l.Pool.Source)
	}
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Names == nil {
		l.Names = map[string]string{}
	}
	if l.Difficulty == 0 {
		l.Difficulty = 1
	}
	names, err := json.Marshal(l.Names)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO locations (id, source, pool_key, name, names, x, y, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Pool.Source, l.Pool.Key, l.Name, string(names),
		l.Position.X, l.Position.Y, l.Difficulty, formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting location %s: %w", l.Name, err)
	}
	return nil
}

// DeleteLocation removes a location from its pool. Rounds that already used
// it keep their reference.
func (s *SQLiteStore) DeleteLocation(ctx context.Context, ref geoquiz.LocationRef) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE source = ? AND id = ?`, ref.Source, ref.ID)
	return err
}

func (s *SQLiteStore) CountLocations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
