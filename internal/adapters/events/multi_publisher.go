package events

import (
	"context"
	"errors"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

// MultiPublisher hands each event to every sink. It fails when any sink fails,
// so the outbox retries the event; sinks must tolerate duplicates.
type MultiPublisher struct {
	sinks []ports.EventPublisher
}

func NewMultiPublisher(sinks ...ports.EventPublisher) *MultiPublisher {
	return &MultiPublisher{sinks: sinks}
}

func (p *MultiPublisher) Publish(ctx context.Context, topic string, event domain.EventEnvelope) error {
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
