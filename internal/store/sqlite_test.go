package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playperu/geoquiz/internal/database"
	"github.com/playperu/geoquiz/internal/engine"
	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/migrations"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return New(db)
}

func addLocations(t *testing.T, s *SQLiteStore, pool geoquiz.Pool, ids ...string) {
	t.Helper()
	for i, id := range ids {
		l := geoquiz.Location{
			ID:       id,
			Pool:     pool,
			Name:     "Place " + id,
			Names:    map[string]string{"de": "Ort " + id},
			Position: geoquiz.LatLng(46+float64(i)*0.1, 7),
		}
		if err := s.AddLocation(context.Background(), &l); err != nil {
			t.Fatalf("adding location %s: %v", id, err)
		}
	}
}

func newGame(t *testing.T, s *SQLiteStore) geoquiz.Game {
	t.Helper()
	g := geoquiz.Game{
		Mode:              geoquiz.ModeSolo,
		OwnerID:           "u1",
		GameType:          "country:switzerland",
		LocationsPerRound: 2,
		Status:            geoquiz.GameStatusActive,
		CreatedAt:         time.Now(),
	}
	if err := s.CreateGame(context.Background(), &g); err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g
}

func TestGameRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	limit := 45

	g := geoquiz.Game{
		Mode:              geoquiz.ModeGroup,
		GroupID:           "g1",
		OwnerID:           "u1",
		GameType:          "world:capitals",
		LocationsPerRound: 3,
		TimeLimitSeconds:  &limit,
		Status:            geoquiz.GameStatusActive,
		CreatedAt:         time.Now(),
	}
	if err := s.CreateGame(ctx, &g); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if g.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.Game(ctx, g.ID)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if got.GroupID != "g1" || got.GameType != "world:capitals" || got.LocationsPerRound != 3 {
		t.Errorf("unexpected game: %+v", got)
	}
	if got.TimeLimitSeconds == nil || *got.TimeLimitSeconds != 45 {
		t.Errorf("time limit = %v, want 45", got.TimeLimitSeconds)
	}
	if got.CurrentRound != 0 || got.LeaderboardRevealed {
		t.Errorf("fresh game should have no rounds and hidden leaderboard: %+v", got)
	}

	if _, err := s.Game(ctx, "missing"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceRound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := newGame(t, s)

	if err := s.SetLeaderboardRevealed(ctx, g.ID, true); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := s.AdvanceRound(ctx, g.ID, 0); err != nil {
		t.Fatalf("AdvanceRound: %v", err)
	}
	if err := s.AdvanceRound(ctx, g.ID, 0); !errors.Is(err, engine.ErrConflict) {
		t.Fatalf("stale advance: expected ErrConflict, got %v", err)
	}

	got, _ := s.Game(ctx, g.ID)
	if got.CurrentRound != 1 {
		t.Errorf("current round = %d, want 1", got.CurrentRound)
	}
	if got.LeaderboardRevealed {
		t.Error("advancing should hide the leaderboard")
	}

	if err := s.CompleteGame(ctx, g.ID); err != nil {
		t.Fatalf("CompleteGame: %v", err)
	}
	got, _ = s.Game(ctx, g.ID)
	if got.Status != geoquiz.GameStatusCompleted || got.CompletedAt == nil {
		t.Errorf("game not completed: %+v", got)
	}
	if err := s.AdvanceRound(ctx, g.ID, 1); !errors.Is(err, engine.ErrConflict) {
		t.Errorf("completed game advanced: %v", err)
	}
}

func TestPoolLocations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch := geoquiz.Pool{Source: geoquiz.SourceCountry, Key: "switzerland"}
	at := geoquiz.Pool{Source: geoquiz.SourceCountry, Key: "austria"}
	addLocations(t, s, ch, "c", "a", "b")
	addLocations(t, s, at, "x")

	locs, err := s.PoolLocations(ctx, ch)
	if err != nil {
		t.Fatalf("PoolLocations: %v", err)
	}
	if len(locs) != 3 {
		t.Fatalf("got %d locations, want 3", len(locs))
	}
	for i, id := range []string{"a", "b", "c"} {
		if locs[i].ID != id {
			t.Errorf("locs[%d] = %s, want %s", i, locs[i].ID, id)
		}
	}
	if locs[0].Names["de"] != "Ort a" {
		t.Errorf("localized name lost: %v", locs[0].Names)
	}

	loc, err := s.Location(ctx, geoquiz.LocationRef{Source: geoquiz.SourceCountry, ID: "x"})
	if err != nil || loc.Pool != at {
		t.Fatalf("Location = %+v, %v", loc, err)
	}
	if _, err := s.Location(ctx, geoquiz.LocationRef{Source: geoquiz.SourceWorld, ID: "x"}); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("expected ErrNotFound across sources, got %v", err)
	}
}

func TestInsertRoundsRejectsReuse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := newGame(t, s)

	slot := func(round, idx int, loc string) geoquiz.GameRound {
		return geoquiz.GameRound{
			GameID:         g.ID,
			RoundNumber:    round,
			LocationIndex:  idx,
			LocationID:     loc,
			LocationSource: geoquiz.SourceCountry,
			CreatedAt:      time.Now(),
		}
	}

	if err := s.InsertRounds(ctx, []geoquiz.GameRound{slot(1, 1, "a"), slot(1, 2, "b")}); err != nil {
		t.Fatalf("InsertRounds: %v", err)
	}

	tests := []struct {
		name  string
		round geoquiz.GameRound
	}{
		{"same slot", slot(1, 1, "c")},
		{"same location in a later round", slot(2, 1, "a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InsertRounds(ctx, []geoquiz.GameRound{tt.round})
			if !errors.Is(err, engine.ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
		})
	}

	rounds, err := s.Rounds(ctx, g.ID)
	if err != nil || len(rounds) != 2 {
		t.Fatalf("Rounds = %d, %v", len(rounds), err)
	}
}

func TestInsertGuessUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := newGame(t, s)

	rounds := []geoquiz.GameRound{{
		GameID: g.ID, RoundNumber: 1, LocationIndex: 1,
		LocationID: "a", LocationSource: geoquiz.SourceCountry, CreatedAt: time.Now(),
	}}
	if err := s.InsertRounds(ctx, rounds); err != nil {
		t.Fatalf("InsertRounds: %v", err)
	}

	pos := geoquiz.LatLng(46.9, 7.4)
	first := geoquiz.Guess{GameRoundID: rounds[0].ID, UserID: "u1", Position: &pos, Distance: 12.3, Score: 88, CreatedAt: time.Now()}
	if err := s.InsertGuess(ctx, &first); err != nil {
		t.Fatalf("InsertGuess: %v", err)
	}
	dup := geoquiz.Guess{GameRoundID: rounds[0].ID, UserID: "u1", Distance: 400, CreatedAt: time.Now()}
	if err := s.InsertGuess(ctx, &dup); !errors.Is(err, engine.ErrAlreadyGuessed) {
		t.Fatalf("expected ErrAlreadyGuessed, got %v", err)
	}
	timeout := geoquiz.Guess{GameRoundID: rounds[0].ID, UserID: "u2", Distance: 400, Score: 2, CreatedAt: time.Now()}
	if err := s.InsertGuess(ctx, &timeout); err != nil {
		t.Fatalf("InsertGuess timeout: %v", err)
	}

	got, err := s.Guess(ctx, rounds[0].ID, "u2")
	if err != nil {
		t.Fatalf("Guess: %v", err)
	}
	if !got.TimedOut() {
		t.Errorf("expected timeout guess with nil position, got %+v", got.Position)
	}

	totals, err := s.GameTotals(ctx, g.ID)
	if err != nil || len(totals) != 2 {
		t.Fatalf("GameTotals = %+v, %v", totals, err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := newGame(t, s)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx engine.Tx) error {
		if err := tx.AdvanceRound(ctx, g.ID, 0); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := s.Game(ctx, g.ID)
	if got.CurrentRound != 0 {
		t.Errorf("rollback failed: current round = %d", got.CurrentRound)
	}
}

func TestMemberRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddMember(ctx, "g1", "anna", geoquiz.RoleMember); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMember(ctx, "g1", "anna", geoquiz.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	role, err := s.MemberRole(ctx, "g1", "anna")
	if err != nil || role != geoquiz.RoleAdmin {
		t.Fatalf("role = %q, %v", role, err)
	}
	if _, err := s.MemberRole(ctx, "g1", "ben"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
