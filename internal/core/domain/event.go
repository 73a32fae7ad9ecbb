package domain

import (
	"encoding/json"
	"time"
)

const CurrentEventSchemaVersion = 1

// EventEnvelope is the downstream representation of an audit entry, published
// through the outbox once the entry is stored.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Actor         string          `json:"actor"`
	Payload       json.RawMessage `json:"payload"`
}

// AuditEventType maps an audit action to its event type, e.g.
// "assignments.updated".
func AuditEventType(table Table, action AuditAction) string {
	switch action {
	case ActionCreate:
		return string(table) + ".created"
	case ActionUpdate:
		return string(table) + ".updated"
	default:
		return string(table) + ".deleted"
	}
}

const (
	OutboxPending    = "pending"
	OutboxDispatched = "dispatched"
	OutboxDead       = "dead"
)

type OutboxEvent struct {
	ID            int64
	EventID       string
	Topic         string
	PayloadJSON   json.RawMessage
	Status        string
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	DispatchedAt  *time.Time
}

// AuditTopic is the publish topic for an audit entry.
func AuditTopic(table Table, action AuditAction) string {
	return "crewdesk." + AuditEventType(table, action)
}

// NewAuditEvent wraps a stored audit entry for publishing. The entry itself is
// the payload.
func NewAuditEvent(entry AuditLogEntry) (EventEnvelope, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:       entry.ID,
		EventType:     AuditEventType(entry.TableName, entry.Action),
		SchemaVersion: CurrentEventSchemaVersion,
		AggregateType: string(entry.TableName),
		AggregateID:   entry.RecordID,
		OccurredAt:    entry.CreatedAt,
		Actor:         entry.UserEmail,
		Payload:       payload,
	}, nil
}
