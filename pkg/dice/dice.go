// Package dice provides the randomness abstraction shared by the revolver,
// the deck and the opponent policy.
package dice

import (
	"math/rand"
	"time"
)

// Source is the randomness provider for every random decision in a session.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// NewSource returns a seeded source. A zero seed means time-based.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Bernoulli reports true with probability p.
// p <= 0 never succeeds and p >= 1 always does, without consuming randomness.
func Bernoulli(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Shuffle permutes n elements in place with Fisher-Yates using swap.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}
