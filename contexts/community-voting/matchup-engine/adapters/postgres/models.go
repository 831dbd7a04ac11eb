package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

// candidateModel maps the vote_candidates projection maintained upstream
// (certified projects, latest ship event per project, aggregated devlog time).
type candidateModel struct {
	ShipEventID   string    `gorm:"column:ship_event_id;primaryKey"`
	ProjectID     string    `gorm:"column:project_id"`
	OwnerID       string    `gorm:"column:owner_id"`
	RepoKey       string    `gorm:"column:repo_key"`
	Title         string    `gorm:"column:title"`
	Description   string    `gorm:"column:description"`
	EffortSeconds float64   `gorm:"column:effort_seconds"`
	Paid          bool      `gorm:"column:paid"`
	ShippedAt     time.Time `gorm:"column:shipped_at"`
}

func (candidateModel) TableName() string {
	return "vote_candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ProjectID:     m.ProjectID,
		OwnerID:       m.OwnerID,
		ShipEventID:   m.ShipEventID,
		RepoKey:       m.RepoKey,
		Title:         m.Title,
		Description:   m.Description,
		EffortSeconds: m.EffortSeconds,
		Paid:          m.Paid,
		ShippedAt:     m.ShippedAt,
	}
}

type voteModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	FirstShipEventID  string    `gorm:"column:first_ship_event_id"`
	SecondShipEventID string    `gorm:"column:second_ship_event_id"`
	VoterID           string    `gorm:"column:voter_id"`
	WinnerProjectID   *string   `gorm:"column:winner_project_id"`
	Tie               bool      `gorm:"column:tie"`
	Rationale         string    `gorm:"column:rationale"`
	Signature         string    `gorm:"column:signature"`
	TimeSpentMS       int64     `gorm:"column:time_spent_ms"`
	IPAddress         string    `gorm:"column:ip_address"`
	UserAgent         string    `gorm:"column:user_agent"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "matchup_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:                strings.TrimSpace(vote.VoteID),
		FirstShipEventID:  strings.TrimSpace(vote.FirstShipEventID),
		SecondShipEventID: strings.TrimSpace(vote.SecondShipEventID),
		VoterID:           strings.TrimSpace(vote.VoterID),
		Tie:               vote.Tie,
		Rationale:         vote.Rationale,
		Signature:         strings.TrimSpace(vote.Signature),
		TimeSpentMS:       vote.TimeSpentMS,
		IPAddress:         strings.TrimSpace(vote.IPAddress),
		UserAgent:         strings.TrimSpace(vote.UserAgent),
		CreatedAt:         vote.CreatedAt.UTC(),
	}
	if strings.TrimSpace(vote.WinnerProjectID) != "" {
		winner := strings.TrimSpace(vote.WinnerProjectID)
		row.WinnerProjectID = &winner
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	vote := entities.Vote{
		VoteID:            m.ID,
		FirstShipEventID:  m.FirstShipEventID,
		SecondShipEventID: m.SecondShipEventID,
		VoterID:           m.VoterID,
		Tie:               m.Tie,
		Rationale:         m.Rationale,
		Signature:         m.Signature,
		TimeSpentMS:       m.TimeSpentMS,
		IPAddress:         m.IPAddress,
		UserAgent:         m.UserAgent,
		CreatedAt:         m.CreatedAt,
	}
	if m.WinnerProjectID != nil {
		vote.WinnerProjectID = *m.WinnerProjectID
	}
	return vote
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	VoteID      string    `gorm:"column:vote_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "matchup_vote_idempotency"
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "matchup_vote_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		ID:           strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      string(payload),
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}
