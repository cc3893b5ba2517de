// Package rng provides the randomness abstraction for the Emberdeck combat
// engine. All engine randomness (shuffles, move selection, target sampling)
// flows through a single injected Source so a combat is reproducible for a
// given seed sequence.
package rng

// Source is the randomness provider for the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}
