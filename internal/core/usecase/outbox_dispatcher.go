package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

// OutboxDispatcher forwards stored audit events to a publisher. Failed events
// are retried with backoff until the retry budget is spent.
type OutboxDispatcher struct {
	repo      ports.OutboxRepository
	publisher ports.EventPublisher
	log       *zap.Logger
	interval  time.Duration
	batchSize int
	maxRetry  int
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	dispatchSuccessTotal atomic.Int64
	dispatchFailureTotal atomic.Int64
	dispatchDeadTotal    atomic.Int64
}

type OutboxDispatcherMetrics struct {
	DispatchSuccessTotal int64
	DispatchFailureTotal int64
	DispatchDeadTotal    int64
}

func NewOutboxDispatcher(repo ports.OutboxRepository, publisher ports.EventPublisher, log *zap.Logger, interval time.Duration, batchSize int) *OutboxDispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OutboxDispatcher{
		repo:      repo,
		publisher: publisher,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
		maxRetry:  5,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (d *OutboxDispatcher) Start(parent context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	d.wg.Add(1)
	go d.loop(ctx)
}

func (d *OutboxDispatcher) Close() error {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()
	return nil
}

func (d *OutboxDispatcher) loop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if err := d.DispatchBatch(ctx); err != nil && ctx.Err() == nil {
			d.log.Error("outbox dispatch batch", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// DispatchBatch publishes one batch of due events. Only storage failures
// abort the batch; a publish failure reschedules that event and moves on.
func (d *OutboxDispatcher) DispatchBatch(ctx context.Context) error {
	due, err := d.repo.FetchPending(ctx, d.batchSize)
	if err != nil {
		return fmt.Errorf("fetch pending outbox events: %w", err)
	}
	for _, event := range due {
		if err := d.deliver(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *OutboxDispatcher) deliver(ctx context.Context, event domain.OutboxEvent) error {
	var envelope domain.EventEnvelope
	publishErr := json.Unmarshal(event.PayloadJSON, &envelope)
	if publishErr != nil {
		publishErr = fmt.Errorf("decode payload: %w", publishErr)
	} else {
		publishErr = d.publisher.Publish(ctx, event.Topic, envelope)
	}

	if publishErr == nil {
		if err := d.repo.MarkDispatched(ctx, event.ID); err != nil {
			return fmt.Errorf("mark outbox event %d dispatched: %w", event.ID, err)
		}
		d.dispatchSuccessTotal.Add(1)
		return nil
	}

	d.dispatchFailureTotal.Add(1)
	d.log.Warn("audit event delivery failed",
		zap.String("event_id", event.EventID),
		zap.String("topic", event.Topic),
		zap.Int("attempts", event.Attempts+1),
		zap.Error(publishErr),
	)
	return d.markFailure(ctx, event, publishErr.Error())
}

// Purge drops dispatched events older than retention.
func (d *OutboxDispatcher) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return d.repo.PurgeDispatched(ctx, d.now().Add(-retention))
}

func (d *OutboxDispatcher) markFailure(ctx context.Context, event domain.OutboxEvent, errMsg string) error {
	attempts := event.Attempts + 1
	if attempts >= d.maxRetry {
		if err := d.repo.MarkDead(ctx, event.ID, attempts, errMsg); err != nil {
			return err
		}
		d.dispatchDeadTotal.Add(1)
		d.log.Error("outbox event dead-lettered", zap.String("event_id", event.EventID), zap.Int("attempts", attempts))
		return nil
	}
	return d.repo.MarkFailed(ctx, event.ID, attempts, d.now().Add(backoffDuration(attempts)), errMsg)
}

func (d *OutboxDispatcher) Metrics() OutboxDispatcherMetrics {
	return OutboxDispatcherMetrics{
		DispatchSuccessTotal: d.dispatchSuccessTotal.Load(),
		DispatchFailureTotal: d.dispatchFailureTotal.Load(),
		DispatchDeadTotal:    d.dispatchDeadTotal.Load(),
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	d := time.Duration(attempt*attempt) * time.Second
	if d > 5*time.Minute {
		return 5 * time.Minute
	}
	return d
}
