package commands

import (
	"encoding/json"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

func newMatchupEnvelope(
	eventID string,
	eventType string,
	firstShipEventID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Vote events partition by the first ship event for stable ordering on
	// project-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "matchup-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "first_ship_event",
		PartitionKey:     firstShipEventID,
		Data:             payload,
	}, nil
}
