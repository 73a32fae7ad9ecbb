package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

const defaultAuditWriteTimeout = 5 * time.Second

// AuditRecorder appends change history entries after the primary write has
// committed. Recording is best effort: failures are logged and counted, never
// returned, so the caller's mutation outcome is unaffected.
type AuditRecorder struct {
	repo    ports.AuditLogWriter
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
	newID   func() string

	writtenTotal atomic.Int64
	failedTotal  atomic.Int64
	skippedTotal atomic.Int64
}

type AuditRecorderMetrics struct {
	WrittenTotal int64
	FailedTotal  int64
	SkippedTotal int64
}

func NewAuditRecorder(repo ports.AuditLogWriter, log *zap.Logger) *AuditRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditRecorder{
		repo:    repo,
		log:     log,
		timeout: defaultAuditWriteTimeout,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (r *AuditRecorder) LogCreate(ctx context.Context, table domain.Table, id string, newValues any, user domain.UserContext) {
	newJSON, err := snapshotJSON(newValues)
	if err != nil {
		r.reportFailure(table, id, domain.ActionCreate, err)
		return
	}
	r.append(ctx, user, domain.AuditLogEntry{
		TableName: table,
		RecordID:  id,
		Action:    domain.ActionCreate,
		NewValues: newJSON,
	})
}

// LogUpdate records an UPDATE entry even when nothing changed; the entry then
// carries an empty changed field list.
func (r *AuditRecorder) LogUpdate(ctx context.Context, table domain.Table, id string, oldValues, newValues any, user domain.UserContext) {
	oldJSON, err := snapshotJSON(oldValues)
	if err != nil {
		r.reportFailure(table, id, domain.ActionUpdate, err)
		return
	}
	newJSON, err := snapshotJSON(newValues)
	if err != nil {
		r.reportFailure(table, id, domain.ActionUpdate, err)
		return
	}
	changed, err := ChangedFields(oldJSON, newJSON)
	if err != nil {
		r.reportFailure(table, id, domain.ActionUpdate, err)
		return
	}
	r.append(ctx, user, domain.AuditLogEntry{
		TableName:     table,
		RecordID:      id,
		Action:        domain.ActionUpdate,
		ChangedFields: changed,
		OldValues:     oldJSON,
		NewValues:     newJSON,
	})
}

func (r *AuditRecorder) LogDelete(ctx context.Context, table domain.Table, id string, oldValues any, user domain.UserContext) {
	oldJSON, err := snapshotJSON(oldValues)
	if err != nil {
		r.reportFailure(table, id, domain.ActionDelete, err)
		return
	}
	r.append(ctx, user, domain.AuditLogEntry{
		TableName: table,
		RecordID:  id,
		Action:    domain.ActionDelete,
		OldValues: oldJSON,
	})
}

func (r *AuditRecorder) Metrics() AuditRecorderMetrics {
	return AuditRecorderMetrics{
		WrittenTotal: r.writtenTotal.Load(),
		FailedTotal:  r.failedTotal.Load(),
		SkippedTotal: r.skippedTotal.Load(),
	}
}

func (r *AuditRecorder) append(ctx context.Context, user domain.UserContext, entry domain.AuditLogEntry) {
	if !user.Authenticated() {
		r.skippedTotal.Add(1)
		r.log.Warn("audit entry skipped: no authenticated user",
			zap.String("table", string(entry.TableName)),
			zap.String("record_id", entry.RecordID),
			zap.String("action", string(entry.Action)),
		)
		return
	}

	entry.ID = r.newID()
	entry.UserID = user.UserID
	entry.UserEmail = user.Email
	entry.CreatedAt = r.now()

	// The request may already be finished once the primary write returns.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.repo.Append(writeCtx, entry); err != nil {
		r.reportFailure(entry.TableName, entry.RecordID, entry.Action, err)
		return
	}
	r.writtenTotal.Add(1)
}

func (r *AuditRecorder) reportFailure(table domain.Table, id string, action domain.AuditAction, err error) {
	r.failedTotal.Add(1)
	r.log.Error("audit entry not recorded",
		zap.String("table", string(table)),
		zap.String("record_id", id),
		zap.String("action", string(action)),
		zap.Error(err),
	)
}

func snapshotJSON(v any) (json.RawMessage, error) {
	switch typed := v.(type) {
	case nil:
		return nil, errors.New("snapshot is nil")
	case json.RawMessage:
		if !json.Valid(typed) {
			return nil, errors.New("snapshot is not valid json")
		}
		return typed, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return raw, nil
}
