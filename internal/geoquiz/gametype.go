package geoquiz

import (
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindCountry Kind = "country"
	KindWorld   Kind = "world"
	KindImage   Kind = "image"
)

// Space is the coordinate space a game type is played in.
type Space int

const (
	SpaceGeo Space = iota
	SpacePixel
)

func (s Space) String() string {
	if s == SpacePixel {
		return "pixel"
	}
	return "geo"
}

// GameType is an immutable playable mode. Distances are in km.
type GameType struct {
	ID                     string
	Kind                   Kind
	Name                   string
	Bounds                 *Bounds // nil for world maps
	TimeoutPenaltyDistance float64
	ScoreScaleFactor       float64
}

// Selector is the part of the id after the kind, e.g. "switzerland".
func (t GameType) Selector() string {
	_, sel, _ := strings.Cut(t.ID, ":")
	return sel
}

func (t GameType) Pool() Pool {
	return Pool{Source: LocationSource(t.Kind), Key: t.Selector()}
}

func (t GameType) Space() Space {
	if t.Kind == KindImage {
		return SpacePixel
	}
	return SpaceGeo
}

// Registry is a read-only set of game types built once at startup.
type Registry struct {
	types map[string]GameType
	ids   []string
}

func NewRegistry(types ...GameType) (*Registry, error) {
	r := &Registry{types: make(map[string]GameType, len(types))}
	for _, t := range types {
		kind, sel, ok := strings.Cut(t.ID, ":")
		if !ok || sel == "" || Kind(kind) != t.Kind {
			return nil, fmt.Errorf("game type %q: id must be %q-prefixed", t.ID, t.Kind)
		}
		if t.ScoreScaleFactor <= 0 {
			return nil, fmt.Errorf("game type %q: score scale factor must be positive", t.ID)
		}
		if t.Kind != KindWorld && t.Bounds == nil {
			return nil, fmt.Errorf("game type %q: bounds required", t.ID)
		}
		if _, dup := r.types[t.ID]; dup {
			return nil, fmt.Errorf("game type %q: duplicate id", t.ID)
		}
		r.types[t.ID] = t
		r.ids = append(r.ids, t.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

func (r *Registry) Lookup(id string) (GameType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// All returns the game types ordered by id.
func (r *Registry) All() []GameType {
	out := make([]GameType, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.types[id])
	}
	return out
}

// DefaultRegistry returns the built-in game types.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		GameType{
			ID:   "country:switzerland",
			Kind: KindCountry,
			Name: "Switzerland",
			Bounds: &Bounds{
				Min: LatLng(45.8179, 5.9559),
				Max: LatLng(47.8084, 10.4921),
			},
			TimeoutPenaltyDistance: 400,
			ScoreScaleFactor:       100,
		},
		GameType{
			ID:   "country:austria",
			Kind: KindCountry,
			Name: "Austria",
			Bounds: &Bounds{
				Min: LatLng(46.3723, 9.5307),
				Max: LatLng(49.0205, 17.1608),
			},
			TimeoutPenaltyDistance: 600,
			ScoreScaleFactor:       120,
		},
		GameType{
			ID:                     "world:capitals",
			Kind:                   KindWorld,
			Name:                   "World capitals",
			TimeoutPenaltyDistance: 20000,
			ScoreScaleFactor:       3000,
		},
		GameType{
			ID:                     "world:landmarks",
			Kind:                   KindWorld,
			Name:                   "World landmarks",
			TimeoutPenaltyDistance: 20000,
			ScoreScaleFactor:       3000,
		},
		GameType{
			ID:   "image:garten",
			Kind: KindImage,
			Name: "Garten",
			Bounds: &Bounds{
				Min: Point{X: 0, Y: 0},
				Max: Point{X: 1840, Y: 1380},
			},
			TimeoutPenaltyDistance: 0.25,
			ScoreScaleFactor:       0.05,
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
