package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// LogPublisher writes every event to the log. It is the fallback sink when no
// webhook or Redis target is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, event domain.EventEnvelope) error {
	p.log.Info("outbox publish",
		zap.String("topic", topic),
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate", event.AggregateType+"/"+event.AggregateID),
		zap.String("actor", event.Actor),
	)
	return nil
}
