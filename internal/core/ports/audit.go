package ports

import (
	"context"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type AuditLogWriter interface {
	Append(ctx context.Context, entry domain.AuditLogEntry) error
}

type AuditLogReader interface {
	List(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLogEntry, int64, error)
	ListForRecord(ctx context.Context, table domain.Table, recordID string) ([]domain.AuditLogEntry, error)
}

type AuditLogRepository interface {
	AuditLogWriter
	AuditLogReader
}
