package pairing

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
)

// scriptedRand replays a fixed sequence of draws and repeats the final value.
type scriptedRand struct {
	values []float64
	next   int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0
	}
	if r.next >= len(r.values) {
		return r.values[len(r.values)-1]
	}
	value := r.values[r.next]
	r.next++
	return value
}

func shipped(shipEventID, ownerID string, effort float64, paid bool, shippedAt time.Time) entities.Candidate {
	return entities.Candidate{
		ProjectID:     "project-" + shipEventID,
		OwnerID:       ownerID,
		ShipEventID:   shipEventID,
		Title:         "project " + shipEventID,
		EffortSeconds: effort,
		Paid:          paid,
		ShippedAt:     shippedAt,
	}
}

func TestSampleWeightedBoundaries(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pool := []entities.Candidate{
		shipped("ship-1", "owner-1", 100, false, base),
		shipped("ship-2", "owner-2", 100, false, base.Add(time.Hour)),
		shipped("ship-3", "owner-3", 100, false, base.Add(2*time.Hour)),
	}

	// decay 0.5 gives weights 1, 0.5, 0.25 and total 1.75.
	if got := sampleWeighted(pool, 0.5, &scriptedRand{values: []float64{0}}); got != 0 {
		t.Fatalf("draw at zero should hit index 0, got %d", got)
	}
	if got := sampleWeighted(pool, 0.5, &scriptedRand{values: []float64{1.2 / 1.75}}); got != 1 {
		t.Fatalf("draw past first weight should hit index 1, got %d", got)
	}
	if got := sampleWeighted(pool, 0.5, &scriptedRand{values: []float64{0.999}}); got != 2 {
		t.Fatalf("draw near total should hit the last index, got %d", got)
	}
	if got := sampleWeighted(nil, 0.5, &scriptedRand{}); got != -1 {
		t.Fatalf("empty pool should yield -1, got %d", got)
	}
}

func TestSampleWeightedFavorsEarlierRanks(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pool := []entities.Candidate{
		shipped("ship-1", "owner-1", 100, false, base),
		shipped("ship-2", "owner-2", 100, false, base.Add(time.Hour)),
		shipped("ship-3", "owner-3", 100, false, base.Add(2*time.Hour)),
		shipped("ship-4", "owner-4", 100, false, base.Add(3*time.Hour)),
	}

	rnd := rand.New(rand.NewSource(1))
	counts := make([]int, len(pool))
	for i := 0; i < 20000; i++ {
		counts[sampleWeighted(pool, 0.8, rnd)]++
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("rank %d drawn more often than rank %d: %v", i, i-1, counts)
		}
	}
}

func TestSelectPairsComparableEfforts(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eligible := []entities.Candidate{
		shipped("ship-1", "owner-1", 100, false, base),
		shipped("ship-2", "owner-2", 110, false, base.Add(time.Hour)),
		shipped("ship-3", "owner-3", 500, true, base.Add(2*time.Hour)),
	}

	selector := Selector{Policy: DefaultPolicy()}
	for i := 0; i < 50; i++ {
		first, second, err := selector.Select(eligible)
		if err != nil {
			t.Fatalf("select failed on run %d: %v", i, err)
		}
		if first.ShipEventID == second.ShipEventID {
			t.Fatalf("pair reused ship event %s", first.ShipEventID)
		}
		if first.OwnerID == second.OwnerID {
			t.Fatalf("pair shares owner %s", first.OwnerID)
		}
		if first.Paid {
			t.Fatalf("first pick %s is already paid", first.ShipEventID)
		}
		// 500 is outside the band from either unpaid candidate.
		if first.ShipEventID == "ship-3" || second.ShipEventID == "ship-3" {
			t.Fatalf("paid out-of-band candidate selected: %s vs %s", first.ShipEventID, second.ShipEventID)
		}
	}
}

func TestSelectFavorsEarlierShips(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eligible := []entities.Candidate{
		shipped("ship-late", "owner-3", 100, false, base.Add(48*time.Hour)),
		shipped("ship-early", "owner-1", 100, false, base),
		shipped("ship-mid", "owner-2", 100, false, base.Add(24*time.Hour)),
	}

	selector := Selector{
		Policy: DefaultPolicy(),
		Rand:   &scriptedRand{values: []float64{0}},
	}
	first, second, err := selector.Select(eligible)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if first.ShipEventID != "ship-early" {
		t.Fatalf("expected earliest ship as first pick, got %s", first.ShipEventID)
	}
	if second.ShipEventID != "ship-mid" {
		t.Fatalf("expected next earliest ship as partner, got %s", second.ShipEventID)
	}
}

func TestSelectFallbackDropsEffortBand(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eligible := []entities.Candidate{
		shipped("ship-1", "owner-1", 100, false, base),
		shipped("ship-2", "owner-2", 1000, false, base.Add(time.Hour)),
	}

	first, second, err := Selector{Policy: DefaultPolicy()}.Select(eligible)
	if err != nil {
		t.Fatalf("expected fallback pairing, got %v", err)
	}
	covered := map[string]bool{first.ShipEventID: true, second.ShipEventID: true}
	if !covered["ship-1"] || !covered["ship-2"] {
		t.Fatalf("fallback should pair the only two candidates, got %s and %s", first.ShipEventID, second.ShipEventID)
	}
}

func TestSelectInsufficientPools(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	selector := Selector{Policy: DefaultPolicy()}

	cases := map[string][]entities.Candidate{
		"single candidate": {
			shipped("ship-1", "owner-1", 100, false, base),
		},
		"all paid": {
			shipped("ship-1", "owner-1", 100, true, base),
			shipped("ship-2", "owner-2", 110, true, base.Add(time.Hour)),
		},
		"same owner": {
			shipped("ship-1", "owner-1", 100, false, base),
			shipped("ship-2", "owner-1", 110, false, base.Add(time.Hour)),
		},
		"shared repo": {
			{ProjectID: "p1", OwnerID: "owner-1", ShipEventID: "ship-1", RepoKey: "github.com/acme/app", EffortSeconds: 100, ShippedAt: base},
			{ProjectID: "p2", OwnerID: "owner-2", ShipEventID: "ship-2", RepoKey: "github.com/acme/app", EffortSeconds: 110, ShippedAt: base.Add(time.Hour)},
		},
	}
	for name, eligible := range cases {
		if _, _, err := selector.Select(eligible); !errors.Is(err, domainerrors.ErrInsufficientCandidates) {
			t.Fatalf("%s: expected ErrInsufficientCandidates, got %v", name, err)
		}
	}
}

func TestSelectPaidCandidateCanPartner(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eligible := []entities.Candidate{
		shipped("ship-1", "owner-1", 100, false, base),
		shipped("ship-2", "owner-2", 110, true, base.Add(time.Hour)),
	}

	first, second, err := Selector{Policy: DefaultPolicy()}.Select(eligible)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if first.ShipEventID != "ship-1" {
		t.Fatalf("only unpaid candidate must lead the pair, got %s", first.ShipEventID)
	}
	if second.ShipEventID != "ship-2" {
		t.Fatalf("paid candidate should still partner, got %s", second.ShipEventID)
	}
}

func TestPolicyNormalizedDefaults(t *testing.T) {
	policy := Policy{}.normalized()
	if policy != DefaultPolicy() {
		t.Fatalf("zero policy should normalize to defaults, got %+v", policy)
	}
	custom := Policy{Decay: 0.9, MaxAttempts: 10, BandLow: 0.5, BandHigh: 2}.normalized()
	if custom.Decay != 0.9 || custom.MaxAttempts != 10 || custom.BandLow != 0.5 || custom.BandHigh != 2 {
		t.Fatalf("valid policy should pass through unchanged, got %+v", custom)
	}
}
