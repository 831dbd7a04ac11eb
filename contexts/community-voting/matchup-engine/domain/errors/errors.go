package errors

import "errors"

var (
	ErrInsufficientCandidates = errors.New("not enough candidates for a matchup")
	ErrInvalidTicket          = errors.New("invalid matchup signature")
	ErrInvalidVoteInput       = errors.New("invalid vote input")
	ErrRationaleTooShort      = errors.New("vote rationale is too short")
	ErrInvalidWinner          = errors.New("winner is not part of the matchup")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrConflict               = errors.New("vote conflict")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
