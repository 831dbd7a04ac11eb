package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	application "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/ticket"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

// WinnerTie is the declared-winner value for a tie vote.
const WinnerTie = "tie"

// SubmitVoteCommand is the write-model input for recording a matchup vote.
type SubmitVoteCommand struct {
	VoterID           string
	IdempotencyKey    string
	FirstShipEventID  string
	SecondShipEventID string
	Signature         string
	Winner            string
	Rationale         string
	TimeSpentMS       int64
	IPAddress         string
	UserAgent         string
}

// SubmitVoteResult returns the recorded vote plus a replay marker the
// transport layer maps to API semantics.
type SubmitVoteResult struct {
	Vote     entities.Vote
	Replayed bool
}

// SubmitVoteUseCase records matchup votes. The matchup ticket is re-verified
// before any write, so a vote can only land for the exact pair and voter the
// service signed. Submissions are replay-safe via idempotency key + request
// hash validation.
type SubmitVoteUseCase struct {
	Catalog            ports.CandidateCatalog
	Votes              ports.VoteRepository
	Idempotency        ports.IdempotencyStore
	Outbox             ports.OutboxWriter
	Clock              ports.Clock
	IDGen              ports.IDGenerator
	Signer             ticket.Signer
	MinRationaleLength int
	IdempotencyTTL     time.Duration
	Logger             *slog.Logger
}

func (uc SubmitVoteUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	firstEvent := strings.TrimSpace(cmd.FirstShipEventID)
	secondEvent := strings.TrimSpace(cmd.SecondShipEventID)
	winner := strings.TrimSpace(cmd.Winner)

	logger.Info("vote submission processing started",
		"event", "matchup_vote_submit_started",
		"module", "community-voting/matchup-engine",
		"layer", "application",
		"voter_id", voterID,
		"first_ship_event", firstEvent,
		"second_ship_event", secondEvent,
	)

	if voterID == "" || firstEvent == "" || secondEvent == "" || firstEvent == secondEvent || winner == "" {
		logger.Warn("vote submission validation failed",
			"event", "matchup_vote_submit_validation_failed",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
		)
		return SubmitVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return SubmitVoteResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	rationale := strings.TrimSpace(cmd.Rationale)
	if rationale != "" && utf8.RuneCountInString(rationale) < uc.resolveMinRationale() {
		return SubmitVoteResult{}, domainerrors.ErrRationaleTooShort
	}

	if !uc.Signer.Verify(cmd.Signature, firstEvent, secondEvent, voterID) {
		// Verification exposes a boolean only; the mismatch cause stays out of
		// logs and responses.
		logger.Warn("vote submission rejected on signature",
			"event", "matchup_vote_signature_rejected",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"voter_id", voterID,
			"first_ship_event", firstEvent,
			"second_ship_event", secondEvent,
		)
		return SubmitVoteResult{}, domainerrors.ErrInvalidTicket
	}

	now := uc.now()
	requestHash := hashSubmitVoteCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return SubmitVoteResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return SubmitVoteResult{}, domainerrors.ErrIdempotencyConflict
		}
		vote, err := uc.Votes.GetVote(ctx, record.VoteID)
		if err != nil {
			return SubmitVoteResult{}, err
		}
		logger.Info("vote submission replayed",
			"event", "matchup_vote_submit_replayed",
			"module", "community-voting/matchup-engine",
			"layer", "application",
			"vote_id", vote.VoteID,
			"voter_id", voterID,
		)
		return SubmitVoteResult{Vote: vote, Replayed: true}, nil
	}

	tie := strings.EqualFold(winner, WinnerTie)
	winnerProjectID := ""
	if !tie {
		projectID, err := uc.resolveWinnerProject(ctx, winner, firstEvent, secondEvent)
		if err != nil {
			return SubmitVoteResult{}, err
		}
		winnerProjectID = projectID
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	vote := entities.Vote{
		VoteID:            voteID,
		FirstShipEventID:  firstEvent,
		SecondShipEventID: secondEvent,
		VoterID:           voterID,
		WinnerProjectID:   winnerProjectID,
		Tie:               tie,
		Rationale:         rationale,
		Signature:         strings.TrimSpace(cmd.Signature),
		TimeSpentMS:       cmd.TimeSpentMS,
		IPAddress:         strings.TrimSpace(cmd.IPAddress),
		UserAgent:         strings.TrimSpace(cmd.UserAgent),
		CreatedAt:         now,
	}
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return SubmitVoteResult{}, err
	}
	if err := uc.appendVoteEvent(ctx, "matchup_vote.recorded", vote, now); err != nil {
		return SubmitVoteResult{}, err
	}
	if err := uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash: requestHash,
		VoteID:      vote.VoteID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	}); err != nil {
		return SubmitVoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "matchup_vote_recorded",
		"module", "community-voting/matchup-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"voter_id", voterID,
		"winner_project_id", winnerProjectID,
		"tie", tie,
	)
	return SubmitVoteResult{Vote: vote}, nil
}

// resolveWinnerProject checks the declared winner against the two ticketed
// ship events and returns its project id.
func (uc SubmitVoteUseCase) resolveWinnerProject(
	ctx context.Context,
	winner string,
	firstEvent string,
	secondEvent string,
) (string, error) {
	for _, shipEventID := range []string{firstEvent, secondEvent} {
		candidate, err := uc.Catalog.GetCandidateByShipEvent(ctx, shipEventID)
		if err != nil {
			return "", err
		}
		if strings.EqualFold(candidate.ProjectID, winner) {
			return candidate.ProjectID, nil
		}
	}
	return "", domainerrors.ErrInvalidWinner
}

func (uc SubmitVoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc SubmitVoteUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func (uc SubmitVoteUseCase) resolveMinRationale() int {
	if uc.MinRationaleLength <= 0 {
		return 10
	}
	return uc.MinRationaleLength
}

func (uc SubmitVoteUseCase) appendVoteEvent(
	ctx context.Context,
	eventType string,
	vote entities.Vote,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"vote_id":           vote.VoteID,
		"first_ship_event":  vote.FirstShipEventID,
		"second_ship_event": vote.SecondShipEventID,
		"voter_id":          vote.VoterID,
		"winner_project_id": vote.WinnerProjectID,
		"tie":               vote.Tie,
		"time_spent_ms":     vote.TimeSpentMS,
		"occurred_at":       occurredAt.Format(time.RFC3339),
	}
	envelope, err := newMatchupEnvelope(eventID, eventType, vote.FirstShipEventID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func hashSubmitVoteCommand(cmd SubmitVoteCommand) string {
	payload := map[string]string{
		"voter_id":          strings.TrimSpace(cmd.VoterID),
		"first_ship_event":  strings.TrimSpace(cmd.FirstShipEventID),
		"second_ship_event": strings.TrimSpace(cmd.SecondShipEventID),
		"signature":         strings.TrimSpace(cmd.Signature),
		"winner":            strings.TrimSpace(cmd.Winner),
		"rationale":         strings.TrimSpace(cmd.Rationale),
		"time_spent_ms":     strconv.FormatInt(cmd.TimeSpentMS, 10),
		"op":                "submit_vote",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
