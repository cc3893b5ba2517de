package rng

import (
	"math/rand"
	"sync"
)

// seededSource implements Source using math/rand with a fixed seed.
// Used for replays, the simulator, and deterministic tests.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: Two sources created with the same seed produce identical
// value sequences for identical call sequences.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Float64 returns a deterministic pseudo-random float64 in [0, 1).
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
