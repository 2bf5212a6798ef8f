package geoquiz

import (
	"math/rand/v2"
	"sync"
)

// Rand is the source of gameplay randomness: round selection and hint
// placement. *rand.Rand satisfies it but is not safe for concurrent use; see
// NewLockedRand.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRand returns a PCG-backed Rand safe for concurrent callers.
func NewLockedRand(seed uint64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rnd.Shuffle(n, swap)
}
