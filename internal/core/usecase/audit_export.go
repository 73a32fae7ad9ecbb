package usecase

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// ExportAuditLogs walks every entry matching filter, newest first, handing
// each to fn. Limit and Offset in filter are ignored.
func ExportAuditLogs(ctx context.Context, audit *AuditService, filter domain.AuditLogFilter, batchSize int, fn func(domain.AuditLogEntry) error) (int, error) {
	if batchSize <= 0 {
		batchSize = domain.AuditPageSize
	}
	if batchSize > domain.MaxAuditPageLimit {
		batchSize = domain.MaxAuditPageLimit
	}
	filter.Limit = batchSize
	filter.Offset = 0

	exported := 0
	for {
		page, err := audit.GetAuditLogs(ctx, filter)
		if err != nil {
			return exported, fmt.Errorf("list audit logs at offset %d: %w", filter.Offset, err)
		}
		for _, entry := range page.Data {
			if err := fn(entry); err != nil {
				return exported, fmt.Errorf("export audit entry %s: %w", entry.ID, err)
			}
			exported++
		}
		if len(page.Data) < filter.Limit {
			return exported, nil
		}
		filter.Offset += len(page.Data)
	}
}
