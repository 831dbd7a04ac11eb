package queries

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/pairing"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/ticket"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

// MatchupResult is a signed pairing ready to present to the voter.
type MatchupResult struct {
	First     entities.Candidate
	Second    entities.Candidate
	Signature string
}

// MatchupUseCase builds fresh matchups: filter the candidate pool for the
// voter, run the constrained pair selection, and sign the resulting pair.
// Nothing is stored; the signature alone proves the pairing at submit time.
type MatchupUseCase struct {
	Catalog ports.CandidateCatalog
	Votes   ports.VoteRepository
	Signer  ticket.Signer
	Policy  pairing.Policy
	// NewRand supplies a per-request randomness source; nil falls back to a
	// time-seeded source.
	NewRand func() pairing.Rand
	Logger  *slog.Logger
}

func (uc MatchupUseCase) RequestMatchup(ctx context.Context, voterID string) (MatchupResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return MatchupResult{}, domainerrors.ErrInvalidVoteInput
	}

	candidates, err := uc.Catalog.ListCandidates(ctx, voterID)
	if err != nil {
		logger.Error("matchup candidate listing failed",
			"event", "matchup_candidates_list_failed",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
			"error", err.Error(),
		)
		return MatchupResult{}, err
	}
	seen, err := uc.Votes.SeenShipEvents(ctx, voterID)
	if err != nil {
		logger.Error("matchup voter history lookup failed",
			"event", "matchup_history_lookup_failed",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
			"error", err.Error(),
		)
		return MatchupResult{}, err
	}

	eligible := pairing.Filter(candidates, voterID, seen)
	if len(eligible) == 0 {
		logger.Info("matchup pool exhausted for voter",
			"event", "matchup_pool_exhausted",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
			"candidate_count", len(candidates),
		)
		return MatchupResult{}, domainerrors.ErrInsufficientCandidates
	}

	selector := pairing.Selector{Policy: uc.Policy}
	if uc.NewRand != nil {
		selector.Rand = uc.NewRand()
	}
	first, second, err := selector.Select(eligible)
	if err != nil {
		logger.Info("matchup selection found no valid pair",
			"event", "matchup_selection_insufficient",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
			"eligible_count", len(eligible),
		)
		return MatchupResult{}, err
	}

	signature := uc.Signer.Sign(first.ShipEventID, second.ShipEventID, voterID)
	logger.Info("matchup issued",
		"event", "matchup_issued",
		"module", "community-voting/matchup-engine",
		"layer", "application",
		"voter_id", voterID,
		"first_ship_event", first.ShipEventID,
		"second_ship_event", second.ShipEventID,
	)
	return MatchupResult{
		First:     first,
		Second:    second,
		Signature: signature,
	}, nil
}

// VoterVotes returns the voter's recorded decisions, newest last.
func (uc MatchupUseCase) VoterVotes(ctx context.Context, voterID string) ([]entities.Vote, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}
	return uc.Votes.ListVotesByVoter(ctx, voterID)
}
