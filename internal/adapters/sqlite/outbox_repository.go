package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type outboxEventModel struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	EventID       string     `gorm:"column:event_id;not null"`
	Topic         string     `gorm:"column:topic;not null"`
	PayloadJSON   string     `gorm:"column:payload_json;not null"`
	Status        string     `gorm:"column:status;not null"`
	Attempts      int        `gorm:"column:attempts;not null"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at;not null"`
	LastError     string     `gorm:"column:last_error;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null"`
	DispatchedAt  *time.Time `gorm:"column:dispatched_at"`
}

func (outboxEventModel) TableName() string {
	return "outbox_events"
}

type OutboxRepository struct {
	db  *gormsqlite.DB
	now func() time.Time
}

func NewOutboxRepository(db *gormsqlite.DB) *OutboxRepository {
	return &OutboxRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []outboxEventModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("status = ? AND next_attempt_at <= ?", domain.OutboxPending, r.now()).
			Order("id ASC").
			Limit(limit).
			Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("fetch pending outbox: %w", err)
	}

	result := make([]domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.OutboxEvent{
			ID:            row.ID,
			EventID:       row.EventID,
			Topic:         row.Topic,
			PayloadJSON:   json.RawMessage(row.PayloadJSON),
			Status:        row.Status,
			Attempts:      row.Attempts,
			NextAttemptAt: row.NextAttemptAt,
			LastError:     row.LastError,
			CreatedAt:     row.CreatedAt,
			DispatchedAt:  row.DispatchedAt,
		})
	}
	return result, nil
}

func (r *OutboxRepository) MarkDispatched(ctx context.Context, id int64) error {
	now := r.now()
	return r.update(ctx, id, "mark outbox dispatched", map[string]any{
		"status":        domain.OutboxDispatched,
		"dispatched_at": &now,
		"last_error":    "",
	})
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, attempts int, nextAttemptAt time.Time, errMsg string) error {
	return r.update(ctx, id, "mark outbox failed", map[string]any{
		"attempts":        attempts,
		"next_attempt_at": nextAttemptAt.UTC(),
		"last_error":      errMsg,
	})
}

func (r *OutboxRepository) MarkDead(ctx context.Context, id int64, attempts int, errMsg string) error {
	return r.update(ctx, id, "mark outbox dead", map[string]any{
		"status":     domain.OutboxDead,
		"attempts":   attempts,
		"last_error": errMsg,
	})
}

// PurgeDispatched deletes dispatched events older than before. Dead events are
// kept for inspection.
func (r *OutboxRepository) PurgeDispatched(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("status = ? AND dispatched_at < ?", domain.OutboxDispatched, before.UTC()).
			Delete(&outboxEventModel{})
		purged = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("purge dispatched outbox: %w", err)
	}
	return purged, nil
}

func (r *OutboxRepository) update(ctx context.Context, id int64, op string, values map[string]any) error {
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&outboxEventModel{}).Where("id = ?", id).Updates(values).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
