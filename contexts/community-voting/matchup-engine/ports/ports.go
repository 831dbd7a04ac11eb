package ports

import (
	"context"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	contractsv1 "github.com/atomtables/summer-of-making/contracts/gen/events/v1"
)

// CandidateCatalog exposes the upstream candidate projection: certified
// projects at their latest ship event, with effort already aggregated.
type CandidateCatalog interface {
	ListCandidates(ctx context.Context, voterID string) ([]entities.Candidate, error)
	GetCandidateByShipEvent(ctx context.Context, shipEventID string) (entities.Candidate, error)
}

// VoteRepository owns vote persistence plus the voter-history read the
// candidate filter consumes.
type VoteRepository interface {
	SaveVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, voteID string) (entities.Vote, error)
	ListVotesByVoter(ctx context.Context, voterID string) ([]entities.Vote, error)
	// SeenShipEvents returns every ship event id the voter has already judged,
	// on either side of a pair.
	SeenShipEvents(ctx context.Context, voterID string) (map[string]bool, error)
}

// IdempotencyRecord captures dedupe metadata for mutating requests.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	VoteID      string
	ExpiresAt   time.Time
}

// IdempotencyStore abstracts idempotency persistence with TTL handling.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends integration events inside command handlers.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// Clock allows deterministic testing of TTL rules.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts vote/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
