package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application/commands"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application/queries"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	httptransport "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/transport/http"
)

type Handler struct {
	Matchups queries.MatchupUseCase
	Votes    commands.SubmitVoteUseCase
	Logger   *slog.Logger
}

func (h Handler) NewMatchupHandler(ctx context.Context, voterID string) (httptransport.MatchupResponse, error) {
	result, err := h.Matchups.RequestMatchup(ctx, voterID)
	if err != nil {
		return httptransport.MatchupResponse{}, err
	}
	return httptransport.MatchupResponse{
		FirstShipEventID:  result.First.ShipEventID,
		SecondShipEventID: result.Second.ShipEventID,
		Candidates: []httptransport.CandidateSummary{
			candidateSummary(result.First),
			candidateSummary(result.Second),
		},
		Signature: result.Signature,
	}, nil
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	voterID string,
	idempotencyKey string,
	req httptransport.SubmitVoteRequest,
	ipAddress string,
	userAgent string,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.SubmitVote(ctx, commands.SubmitVoteCommand{
		VoterID:           voterID,
		IdempotencyKey:    idempotencyKey,
		FirstShipEventID:  req.FirstShipEventID,
		SecondShipEventID: req.SecondShipEventID,
		Signature:         req.Signature,
		Winner:            req.Winner,
		Rationale:         req.Rationale,
		TimeSpentMS:       req.TimeSpentMS,
		IPAddress:         ipAddress,
		UserAgent:         userAgent,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:            result.Vote.VoteID,
		FirstShipEventID:  result.Vote.FirstShipEventID,
		SecondShipEventID: result.Vote.SecondShipEventID,
		VoterID:           result.Vote.VoterID,
		WinnerProjectID:   result.Vote.WinnerProjectID,
		Tie:               result.Vote.Tie,
		Replayed:          result.Replayed,
	}, nil
}

func (h Handler) VoteHistoryHandler(ctx context.Context, voterID string) (httptransport.VoteHistoryResponse, error) {
	votes, err := h.Matchups.VoterVotes(ctx, voterID)
	if err != nil {
		return httptransport.VoteHistoryResponse{}, err
	}
	items := make([]httptransport.VoteHistoryItem, 0, len(votes))
	for _, vote := range votes {
		items = append(items, httptransport.VoteHistoryItem{
			VoteID:            vote.VoteID,
			FirstShipEventID:  vote.FirstShipEventID,
			SecondShipEventID: vote.SecondShipEventID,
			WinnerProjectID:   vote.WinnerProjectID,
			Tie:               vote.Tie,
			CreatedAt:         vote.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.VoteHistoryResponse{Items: items}, nil
}

func candidateSummary(candidate entities.Candidate) httptransport.CandidateSummary {
	return httptransport.CandidateSummary{
		ProjectID:     candidate.ProjectID,
		ShipEventID:   candidate.ShipEventID,
		Title:         candidate.Title,
		Description:   candidate.Description,
		EffortSeconds: candidate.EffortSeconds,
	}
}
