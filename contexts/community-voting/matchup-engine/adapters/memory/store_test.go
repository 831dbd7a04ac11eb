package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

func TestIdempotencyPutDetectsPayloadConflict(t *testing.T) {
	store := NewStore(nil)
	expires := time.Now().UTC().Add(time.Hour)

	first := ports.IdempotencyRecord{Key: "idem-1", RequestHash: "hash-a", VoteID: "vote-1", ExpiresAt: expires}
	if err := store.Put(context.Background(), first); err != nil {
		t.Fatalf("initial put failed: %v", err)
	}

	// Losing a same-key race with an identical payload is a no-op.
	if err := store.Put(context.Background(), first); err != nil {
		t.Fatalf("identical put should be a no-op, got %v", err)
	}

	// A different payload under the same key must surface the conflict, never
	// silently keep both writes.
	diverged := ports.IdempotencyRecord{Key: "idem-1", RequestHash: "hash-b", VoteID: "vote-2", ExpiresAt: expires}
	if err := store.Put(context.Background(), diverged); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestIdempotencyGetDeletesExpiredRows(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()

	stale := ports.IdempotencyRecord{Key: "idem-1", RequestHash: "hash-a", VoteID: "vote-1", ExpiresAt: now.Add(-time.Minute)}
	if err := store.Put(context.Background(), stale); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, found, err := store.Get(context.Background(), "idem-1", now); err != nil || found {
		t.Fatalf("expired record should be a miss, found=%v err=%v", found, err)
	}

	// The expired row is gone, so reusing the key with a new payload succeeds.
	fresh := ports.IdempotencyRecord{Key: "idem-1", RequestHash: "hash-b", VoteID: "vote-2", ExpiresAt: now.Add(time.Hour)}
	if err := store.Put(context.Background(), fresh); err != nil {
		t.Fatalf("put after expiry cleanup failed: %v", err)
	}
}
