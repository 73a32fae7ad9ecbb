package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

// AuditService answers read queries over the audit trail. Failures come back
// as an empty result plus the error so callers can still render.
type AuditService struct {
	repo ports.AuditLogReader
	log  *zap.Logger
}

func NewAuditService(repo ports.AuditLogReader, log *zap.Logger) *AuditService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) GetAuditLogs(ctx context.Context, filter domain.AuditLogFilter) (domain.AuditLogPage, error) {
	empty := domain.AuditLogPage{Data: []domain.AuditLogEntry{}}

	if filter.TableName != "" {
		if _, err := domain.ParseTable(string(filter.TableName)); err != nil {
			return empty, err
		}
	}
	if filter.Action != "" {
		if _, err := domain.ParseAuditAction(string(filter.Action)); err != nil {
			return empty, err
		}
	}
	if filter.Offset < 0 {
		return empty, domain.ErrInvalidPage
	}
	if filter.Limit <= 0 {
		filter.Limit = domain.AuditPageSize
	}
	if filter.Limit > domain.MaxAuditPageLimit {
		filter.Limit = domain.MaxAuditPageLimit
	}

	entries, count, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("list audit logs",
			zap.String("table", string(filter.TableName)),
			zap.String("action", string(filter.Action)),
			zap.Int("offset", filter.Offset),
			zap.Error(err),
		)
		return empty, err
	}
	if entries == nil {
		entries = []domain.AuditLogEntry{}
	}
	return domain.AuditLogPage{Data: entries, Count: count}, nil
}

func (s *AuditService) GetAuditLogsForRecord(ctx context.Context, table domain.Table, recordID string) ([]domain.AuditLogEntry, error) {
	empty := []domain.AuditLogEntry{}

	if _, err := domain.ParseTable(string(table)); err != nil {
		return empty, err
	}
	if err := domain.ValidateID(recordID); err != nil {
		return empty, err
	}

	entries, err := s.repo.ListForRecord(ctx, table, recordID)
	if err != nil {
		s.log.Error("list audit logs for record",
			zap.String("table", string(table)),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
		return empty, err
	}
	if entries == nil {
		return empty, nil
	}
	return entries, nil
}
