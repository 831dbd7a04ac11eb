package pairing

import (
	"sort"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
)

// Policy holds the tunable pairing knobs. Band and decay are fairness policy
// values, not protocol constants, and are exposed through process config.
type Policy struct {
	// Decay is the per-rank weight multiplier for the sampler, 0 < Decay <= 1.
	Decay float64
	// MaxAttempts caps the constrained pairing loop before the unconstrained
	// fallback runs.
	MaxAttempts int
	// BandLow and BandHigh bound the second candidate's effort relative to the
	// first: [BandLow*effort, BandHigh*effort].
	BandLow  float64
	BandHigh float64
}

// DefaultPolicy mirrors the production pairing parameters.
func DefaultPolicy() Policy {
	return Policy{
		Decay:       0.95,
		MaxAttempts: 25,
		BandLow:     0.7,
		BandHigh:    1.3,
	}
}

func (p Policy) normalized() Policy {
	if p.Decay <= 0 || p.Decay > 1 {
		p.Decay = 0.95
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 25
	}
	if p.BandLow <= 0 {
		p.BandLow = 0.7
	}
	if p.BandHigh < p.BandLow {
		p.BandHigh = 1.3
	}
	return p
}

// Selector picks two comparable candidates out of an eligible pool.
type Selector struct {
	Policy Policy
	Rand   Rand
}

// Select runs the constrained weighted pairing loop.
//
// Candidates are prioritised by ascending ship time, so earlier ships carry
// exponentially higher sampling weight. Each attempt samples an unpaid first
// candidate, then samples a partner from the whole pool restricted to a
// different owner, a distinct repo key, and effort inside the fairness band.
// An attempt with no qualifying partner discards both picks and retries fresh.
// After MaxAttempts the band constraint is dropped for exactly one fallback
// attempt; failing that, the pool cannot produce a valid pair.
func (s Selector) Select(eligible []entities.Candidate) (entities.Candidate, entities.Candidate, error) {
	policy := s.Policy.normalized()
	rnd := s.Rand
	if rnd == nil {
		rnd = NewRand()
	}

	ordered := make([]entities.Candidate, len(eligible))
	copy(ordered, eligible)
	sortByPriority(ordered)

	unpaid := make([]entities.Candidate, 0, len(ordered))
	for _, candidate := range ordered {
		if !candidate.Paid {
			unpaid = append(unpaid, candidate)
		}
	}
	if len(ordered) < 2 || len(unpaid) == 0 {
		return entities.Candidate{}, entities.Candidate{}, domainerrors.ErrInsufficientCandidates
	}

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		first := unpaid[sampleWeighted(unpaid, policy.Decay, rnd)]
		partners := partnerPool(ordered, first, policy, true)
		if len(partners) == 0 {
			continue
		}
		second := partners[sampleWeighted(partners, policy.Decay, rnd)]
		return first, second, nil
	}

	// Unconstrained fallback: keep owner/repo distinctness, drop the band.
	first := unpaid[sampleWeighted(unpaid, policy.Decay, rnd)]
	partners := partnerPool(ordered, first, policy, false)
	if len(partners) == 0 {
		return entities.Candidate{}, entities.Candidate{}, domainerrors.ErrInsufficientCandidates
	}
	second := partners[sampleWeighted(partners, policy.Decay, rnd)]
	return first, second, nil
}

// partnerPool narrows the ordered pool to candidates pairable with first:
// never the same ship event, never the same owner, never a shared non-empty
// repo key, and optionally only efforts inside the fairness band.
func partnerPool(ordered []entities.Candidate, first entities.Candidate, policy Policy, band bool) []entities.Candidate {
	low := policy.BandLow * first.EffortSeconds
	high := policy.BandHigh * first.EffortSeconds

	pool := make([]entities.Candidate, 0, len(ordered))
	for _, candidate := range ordered {
		if candidate.ShipEventID == first.ShipEventID {
			continue
		}
		if candidate.OwnerID == first.OwnerID {
			continue
		}
		if first.RepoKey != "" && candidate.RepoKey != "" && candidate.RepoKey == first.RepoKey {
			continue
		}
		if band && (candidate.EffortSeconds < low || candidate.EffortSeconds > high) {
			continue
		}
		pool = append(pool, candidate)
	}
	return pool
}

func sortByPriority(candidates []entities.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ShippedAt.Equal(candidates[j].ShippedAt) {
			return candidates[i].ShipEventID < candidates[j].ShipEventID
		}
		return candidates[i].ShippedAt.Before(candidates[j].ShippedAt)
	})
}
