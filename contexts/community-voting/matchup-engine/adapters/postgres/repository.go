package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	domainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListCandidates reads the vote_candidates projection: certified projects at
// their latest ship event, excluding the requesting voter's own projects.
func (r *Repository) ListCandidates(ctx context.Context, voterID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("owner_id <> ?", strings.TrimSpace(voterID)).
		Order("shipped_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("matchup_repo_list_candidates_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetCandidateByShipEvent(ctx context.Context, shipEventID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("ship_event_id = ?", strings.TrimSpace(shipEventID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("matchup_repo_get_candidate_failed", err,
			"ship_event_id", strings.TrimSpace(shipEventID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("matchup_repo_save_vote_failed", create.Error,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"voter_id", strings.TrimSpace(vote.VoterID),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, domainerrors.ErrVoteNotFound
		}
		return entities.Vote{}, r.logError("matchup_repo_get_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListVotesByVoter(ctx context.Context, voterID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("matchup_repo_list_votes_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SeenShipEvents(ctx context.Context, voterID string) (map[string]bool, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Select("first_ship_event_id", "second_ship_event_id").
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Find(&rows).Error; err != nil {
		return nil, r.logError("matchup_repo_seen_events_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	seen := make(map[string]bool, len(rows)*2)
	for _, row := range rows {
		seen[row.FirstShipEventID] = true
		seen[row.SecondShipEventID] = true
	}
	return seen, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("matchup_repo_idempotency_get_failed", err, "key", strings.TrimSpace(key))
	}
	if !row.ExpiresAt.After(now.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).Error; err != nil {
			return ports.IdempotencyRecord{}, false, r.logError("matchup_repo_idempotency_expire_delete_failed", err,
				"key", strings.TrimSpace(key),
			)
		}
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		VoteID:      row.VoteID,
		ExpiresAt:   row.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: strings.TrimSpace(record.RequestHash),
		VoteID:      strings.TrimSpace(record.VoteID),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("matchup_repo_idempotency_put_failed", create.Error, "key", row.Key)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	// DoNothing reports zero rows when the key already exists. A racing writer
	// with the same payload is a no-op; anything else is a conflict.
	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("matchup_repo_idempotency_load_existing_failed", err, "key", row.Key)
	}
	if existing.RequestHash != row.RequestHash || existing.VoteID != row.VoteID {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	row, err := outboxModelFromEnvelope(envelope)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("matchup_repo_outbox_append_failed", create.Error,
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("matchup_repo_outbox_list_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      []byte(row.Payload),
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("matchup_repo_outbox_mark_failed", update.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "community-voting/matchup-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("matchup repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// SystemClock satisfies ports.Clock with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
