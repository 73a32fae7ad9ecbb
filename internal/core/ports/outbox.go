package ports

import (
	"context"
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, attempts int, nextAttemptAt time.Time, errMsg string) error
	MarkDead(ctx context.Context, id int64, attempts int, errMsg string) error
	PurgeDispatched(ctx context.Context, before time.Time) (int64, error)
}
