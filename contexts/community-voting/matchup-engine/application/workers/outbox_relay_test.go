package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/adapters/memory"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("publish unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "matchup_vote.recorded",
		OccurredAt:    time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		SourceService: "matchup-engine",
		SchemaVersion: 1,
		PartitionKey:  "ship-1",
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "event-1")
	appendEnvelope(t, store, "event-2")

	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	for _, topic := range publisher.topics {
		if topic != "matchup_vote.recorded" {
			t.Fatalf("unexpected topic %s", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, %d rows remain", len(pending))
	}
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "event-1")

	relay := OutboxRelay{Outbox: store, Publisher: &recordingPublisher{fail: true}}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must leave the row pending, got %d rows", len(pending))
	}
}
