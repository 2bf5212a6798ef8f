package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const MaxScore = 100

var ErrUnknownGameType = errors.New("unknown game type")

// Score maps a distance to points with exponential decay: 100 at distance 0,
// about 37 at one scale factor, approaching 0 beyond.
func Score(distanceKm, scaleFactor float64) int {
	if scaleFactor <= 0 || math.IsNaN(distanceKm) {
		return 0
	}
	if distanceKm < 0 {
		distanceKm = 0
	}
	s := int(math.Round(MaxScore * math.Exp(-distanceKm/scaleFactor)))
	return min(max(s, 0), MaxScore)
}

// Scorer resolves game types against a registry.
type Scorer struct {
	types *geoquiz.Registry
}

func NewScorer(types *geoquiz.Registry) *Scorer {
	return &Scorer{types: types}
}

func (s *Scorer) Score(distanceKm float64, gameTypeID string) (int, error) {
	gt, ok := s.types.Lookup(gameTypeID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGameType, gameTypeID)
	}
	return Score(distanceKm, gt.ScoreScaleFactor), nil
}

// Result is the outcome of one answer.
type Result struct {
	Distance float64
	Score    int
}

// Evaluate scores a guess against a target. A nil guess is a timeout and is
// charged the game type's penalty distance.
func Evaluate(target geoquiz.Point, guess *geoquiz.Point, gt geoquiz.GameType) Result {
	d := gt.TimeoutPenaltyDistance
	if guess != nil {
		d = Distance(target, *guess, gt.Space())
	}
	return Result{Distance: d, Score: Score(d, gt.ScoreScaleFactor)}
}
