// Package geoquiz defines the core domain types of the location-guessing game.
// It has zero external dependencies — everything here is pure Go.
package geoquiz

import "time"

// Point is a position on a map. For geographic maps X is the longitude and Y
// the latitude in degrees; for image maps X and Y are pixel coordinates with
// the origin in the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LatLng builds a geographic point.
func LatLng(lat, lng float64) Point {
	return Point{X: lng, Y: lat}
}

func (p Point) Lat() float64 { return p.Y }
func (p Point) Lng() float64 { return p.X }

// Bounds is an axis-aligned rectangle. For geographic maps Min is the
// south-west corner and Max the north-east corner.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// LocationSource tags which pool a location belongs to.
type LocationSource string

const (
	SourceCountry LocationSource = "country"
	SourceWorld   LocationSource = "world"
	SourceImage   LocationSource = "image"
)

func (s LocationSource) Valid() bool {
	switch s {
	case SourceCountry, SourceWorld, SourceImage:
		return true
	}
	return false
}

// Pool selects a set of locations: the country name for country pools, the
// category for world pools and the map id for image pools.
type Pool struct {
	Source LocationSource `json:"source"`
	Key    string         `json:"key"`
}

// LocationRef identifies a location inside its pool family.
type LocationRef struct {
	Source LocationSource
	ID     string
}

type Location struct {
	ID         string
	Pool       Pool
	Name       string
	Names      map[string]string
	Position   Point
	Difficulty int
	CreatedAt  time.Time
}

func (l Location) Ref() LocationRef {
	return LocationRef{Source: l.Pool.Source, ID: l.ID}
}

type GameMode string

const (
	ModeGroup    GameMode = "group"
	ModeSolo     GameMode = "solo"
	ModeTraining GameMode = "training"
)

func (m GameMode) Valid() bool {
	switch m {
	case ModeGroup, ModeSolo, ModeTraining:
		return true
	}
	return false
}

type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
)

type Game struct {
	ID                  string
	Mode                GameMode
	GroupID             string
	OwnerID             string
	GameType            string
	Country             string // legacy: default round type is "country:" + Country
	LocationsPerRound   int
	TimeLimitSeconds    *int
	Status              GameStatus
	CurrentRound        int
	LeaderboardRevealed bool
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// Released reports whether round n is playable.
func (g Game) Released(n int) bool {
	return n >= 1 && n <= g.CurrentRound
}

type GameRound struct {
	ID               string
	GameID           string
	RoundNumber      int
	LocationIndex    int
	LocationID       string
	LocationSource   LocationSource
	GameType         string
	TimeLimitSeconds *int
	CreatedAt        time.Time
}

func (r GameRound) LocationRef() LocationRef {
	return LocationRef{Source: r.LocationSource, ID: r.LocationID}
}

// EffectiveGameType returns the round's game type, falling back to the game's
// legacy country when the round carries none.
func (r GameRound) EffectiveGameType(g Game) string {
	if r.GameType != "" {
		return r.GameType
	}
	if g.GameType != "" && g.Country == "" {
		return g.GameType
	}
	return "country:" + g.Country
}

// EffectiveTimeLimit returns the round override, else the game default.
func (r GameRound) EffectiveTimeLimit(g Game) *int {
	if r.TimeLimitSeconds != nil {
		return r.TimeLimitSeconds
	}
	return g.TimeLimitSeconds
}

type Guess struct {
	ID          string
	GameRoundID string
	UserID      string
	Position    *Point // nil for timeouts
	Distance    float64
	Score       int
	TimeSeconds *int
	CreatedAt   time.Time
}

func (g Guess) TimedOut() bool { return g.Position == nil }

type MemberRole string

const (
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)
