package pairing

import (
	"strings"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
)

// Filter reduces the certified candidate pool to the subset this voter may
// still judge. It drops ship events the voter has already seen, the voter's
// own projects, and candidates with no logged effort (nothing to compare).
//
// A result with fewer than two candidates is returned as nil: the caller must
// treat that as "voting temporarily unavailable", not a hard failure.
func Filter(all []entities.Candidate, voterID string, seen map[string]bool) []entities.Candidate {
	voterID = strings.TrimSpace(voterID)
	eligible := make([]entities.Candidate, 0, len(all))
	for _, candidate := range all {
		if seen[candidate.ShipEventID] {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(candidate.OwnerID), voterID) {
			continue
		}
		if candidate.EffortSeconds <= 0 {
			continue
		}
		eligible = append(eligible, candidate)
	}
	if len(eligible) < 2 {
		return nil
	}
	return eligible
}
