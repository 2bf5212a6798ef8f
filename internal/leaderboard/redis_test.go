package leaderboard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

func newTestBoard(t *testing.T) (*Board, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func TestRecordAndStandings(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	records := []struct {
		game, guess, user string
		points            int
	}{
		{"g1", "q1", "anna", 90},
		{"g1", "q2", "ben", 40},
		{"g1", "q3", "ben", 50},
		{"g1", "q4", "carla", 10},
		{"g2", "q5", "carla", 100},
	}
	for _, r := range records {
		if err := b.Record(ctx, r.game, r.guess, r.user, r.points); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	s, err := b.Standings(ctx, "g1")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	want := []geoquiz.Standing{
		{Rank: 1, UserID: "anna", Points: 90, Guesses: 1},
		{Rank: 1, UserID: "ben", Points: 90, Guesses: 2},
		{Rank: 3, UserID: "carla", Points: 10, Guesses: 1},
	}
	if len(s) != len(want) {
		t.Fatalf("got %d standings, want %d: %+v", len(s), len(want), s)
	}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("standing %d = %+v, want %+v", i, s[i], want[i])
		}
	}

	global, err := b.Global(ctx, 1)
	if err != nil {
		t.Fatalf("Global: %v", err)
	}
	if len(global) != 1 || global[0].UserID != "carla" || global[0].Points != 110 {
		t.Errorf("global top = %+v, want carla with 110", global)
	}
}

func TestRecordCountsGuessOnce(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	for range 3 {
		if err := b.Record(ctx, "g1", "q1", "anna", 70); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := b.Record(ctx, "g1", "q2", "anna", 20); err != nil {
		t.Fatalf("Record: %v", err)
	}

	s, err := b.Standings(ctx, "g1")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(s) != 1 || s[0].Points != 90 || s[0].Guesses != 2 {
		t.Errorf("standings = %+v, want anna with 90 points over 2 guesses", s)
	}
	global, err := b.Global(ctx, 0)
	if err != nil {
		t.Fatalf("Global: %v", err)
	}
	if len(global) != 1 || global[0].Points != 90 {
		t.Errorf("global = %+v, want 90 points", global)
	}
}

func TestRebuildKeepsRecordedGuesses(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	if err := b.Record(ctx, "g1", "q1", "anna", 60); err != nil {
		t.Fatal(err)
	}
	if err := b.Rebuild(ctx, "g1", []geoquiz.Standing{{UserID: "anna", Points: 60, Guesses: 1}}); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	// A late retry of the same guess must not count it twice.
	if err := b.Record(ctx, "g1", "q1", "anna", 60); err != nil {
		t.Fatal(err)
	}

	s, err := b.Standings(ctx, "g1")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(s) != 1 || s[0].Points != 60 || s[0].Guesses != 1 {
		t.Errorf("standings = %+v, want 60 points over 1 guess", s)
	}
}

func TestRebuild(t *testing.T) {
	b, mr := newTestBoard(t)
	ctx := context.Background()

	if err := b.Record(ctx, "g1", "q0", "stale", 999); err != nil {
		t.Fatal(err)
	}
	totals := []geoquiz.Standing{
		{UserID: "anna", Points: 120, Guesses: 3},
		{UserID: "ben", Points: 80, Guesses: 2},
	}
	if err := b.Rebuild(ctx, "g1", totals); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	s, err := b.Standings(ctx, "g1")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(s) != 2 || s[0].UserID != "anna" || s[0].Guesses != 3 || s[1].Rank != 2 {
		t.Errorf("unexpected standings after rebuild: %+v", s)
	}
	if !mr.Exists(GlobalKey) {
		t.Error("rebuild must not drop the global set")
	}
}

func TestStandingsEmpty(t *testing.T) {
	b, _ := newTestBoard(t)
	s, err := b.Standings(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("expected empty standings, got %+v", s)
	}
}

func TestUnreachableRedis(t *testing.T) {
	b, mr := newTestBoard(t)
	mr.Close()

	if err := b.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail against closed server")
	}
}
