package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// auditLogModel keeps snapshots and changed fields as JSON text. A NULL
// changed_fields column is distinct from an empty list.
type auditLogModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Table         string    `gorm:"column:table_name;not null"`
	RecordID      string    `gorm:"column:record_id;not null"`
	Action        string    `gorm:"column:action;not null"`
	ChangedFields *string   `gorm:"column:changed_fields"`
	OldValues     *string   `gorm:"column:old_values"`
	NewValues     *string   `gorm:"column:new_values"`
	UserID        string    `gorm:"column:user_id;not null"`
	UserEmail     string    `gorm:"column:user_email;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (auditLogModel) TableName() string {
	return "audit_log"
}

type AuditLogRepository struct {
	db *gormsqlite.DB
}

func NewAuditLogRepository(db *gormsqlite.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append stores the entry and queues its event in the same transaction.
func (r *AuditLogRepository) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	model, err := auditToModel(entry)
	if err != nil {
		return err
	}
	event, err := domain.NewAuditEvent(entry)
	if err != nil {
		return fmt.Errorf("build audit event: %w", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	return r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}
		outbox := outboxEventModel{
			EventID:       event.EventID,
			Topic:         domain.AuditTopic(entry.TableName, entry.Action),
			PayloadJSON:   string(payload),
			Status:        domain.OutboxPending,
			NextAttemptAt: entry.CreatedAt,
			CreatedAt:     entry.CreatedAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
		return nil
	})
}

// List returns one page, newest first, plus the number of entries matching the
// filter regardless of paging.
func (r *AuditLogRepository) List(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLogEntry, int64, error) {
	var (
		rows  []auditLogModel
		count int64
	)
	matching := func(db *gorm.DB) *gorm.DB {
		if filter.TableName != "" {
			db = db.Where("table_name = ?", string(filter.TableName))
		}
		if filter.Action != "" {
			db = db.Where("action = ?", string(filter.Action))
		}
		return db
	}
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Model(&auditLogModel{}).Scopes(matching).Count(&count).Error; err != nil {
			return fmt.Errorf("count audit entries: %w", err)
		}
		return tx.Scopes(matching).
			Order("created_at DESC, rowid DESC").
			Limit(filter.Limit).
			Offset(filter.Offset).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	entries, err := auditFromModels(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func (r *AuditLogRepository) ListForRecord(ctx context.Context, table domain.Table, recordID string) ([]domain.AuditLogEntry, error) {
	var rows []auditLogModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("table_name = ? AND record_id = ?", string(table), recordID).
			Order("created_at DESC, rowid DESC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list audit entries for record: %w", err)
	}
	return auditFromModels(rows)
}

func auditToModel(entry domain.AuditLogEntry) (auditLogModel, error) {
	model := auditLogModel{
		ID:        entry.ID,
		Table:     string(entry.TableName),
		RecordID:  entry.RecordID,
		Action:    string(entry.Action),
		OldValues: rawToText(entry.OldValues),
		NewValues: rawToText(entry.NewValues),
		UserID:    entry.UserID,
		UserEmail: entry.UserEmail,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if entry.ChangedFields != nil {
		raw, err := json.Marshal(entry.ChangedFields)
		if err != nil {
			return auditLogModel{}, fmt.Errorf("marshal changed fields: %w", err)
		}
		text := string(raw)
		model.ChangedFields = &text
	}
	return model, nil
}

func auditFromModels(rows []auditLogModel) ([]domain.AuditLogEntry, error) {
	out := make([]domain.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		entry := domain.AuditLogEntry{
			ID:        row.ID,
			TableName: domain.Table(row.Table),
			RecordID:  row.RecordID,
			Action:    domain.AuditAction(row.Action),
			OldValues: textToRaw(row.OldValues),
			NewValues: textToRaw(row.NewValues),
			UserID:    row.UserID,
			UserEmail: row.UserEmail,
			CreatedAt: row.CreatedAt,
		}
		if row.ChangedFields != nil {
			fields := []string{}
			if err := json.Unmarshal([]byte(*row.ChangedFields), &fields); err != nil {
				return nil, fmt.Errorf("decode changed fields of %s: %w", row.ID, err)
			}
			entry.ChangedFields = fields
		}
		out = append(out, entry)
	}
	return out, nil
}

func rawToText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	text := string(raw)
	return &text
}

func textToRaw(text *string) json.RawMessage {
	if text == nil {
		return nil
	}
	return json.RawMessage(*text)
}
