package pairing

import (
	"math/rand"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
)

// Rand is the randomness source consumed by the weighted sampler. math/rand's
// *rand.Rand satisfies it; tests inject scripted values.
type Rand interface {
	Float64() float64
}

// NewRand returns a time-seeded per-call randomness source. Selection holds no
// shared RNG state, so concurrent matchup requests need no locking.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// sampleWeighted draws one index from a priority-ordered pool where position i
// carries weight decay^i. It is the sole randomness primitive in the selector:
// draw x uniform in [0, Σw) and return the first index whose cumulative weight
// reaches x. Returns -1 on an empty pool.
func sampleWeighted(pool []entities.Candidate, decay float64, rnd Rand) int {
	if len(pool) == 0 {
		return -1
	}
	weights := make([]float64, len(pool))
	total := 0.0
	weight := 1.0
	for i := range pool {
		weights[i] = weight
		total += weight
		weight *= decay
	}
	x := rnd.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative >= x {
			return i
		}
	}
	// Float accumulation can land x a hair past the last boundary.
	return len(pool) - 1
}
