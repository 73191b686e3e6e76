package telemetry

import (
	"context"
	"log"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter records user actions that change shared state: joins,
// Vibrar requests, event and group administration.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level      string `json:"level"`
	Action     string `json:"action"`
	ResourceID string `json:"resource_id,omitempty"`
	Text       string `json:"text"`
}

// AuditEntry describes one audited action.
type AuditEntry struct {
	Level      string
	Action     string
	ResourceID string
	Text       string
	RequestID  string
	UserID     string
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit publishes entry. A nil emitter is a no-op.
func (e *AuditEmitter) Emit(ctx context.Context, entry AuditEntry) {
	if e == nil || e.publisher == nil {
		return
	}
	if entry.Level == "" {
		entry.Level = "INFO"
	}

	var userID *string
	if entry.UserID != "" {
		userID = &entry.UserID
	}

	log.Printf("audit emit: level=%s action=%s resource=%s request_id=%s user_id=%s", entry.Level, entry.Action, entry.ResourceID, entry.RequestID, entry.UserID)
	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     entry.RequestID,
		UserID:        userID,
		Payload: AuditPayload{
			Level:      entry.Level,
			Action:     entry.Action,
			ResourceID: entry.ResourceID,
			Text:       entry.Text,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
