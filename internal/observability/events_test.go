package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func TestPublishEventWithoutPublisher(t *testing.T) {
	SetPublisher(nil)
	assert.NoError(t, PublishEvent(context.Background(), "chat.created", NewEnvelope("domain", "chat_created", nil)))
}

func TestPublishEventForwardsToPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	SetPublisher(pub)
	defer SetPublisher(nil)

	env := NewEnvelope("domain", "match_accepted", map[string]string{"a": "b"}).WithTrace("req-1", "trace-1")
	assert.NoError(t, PublishEvent(context.Background(), "match.accepted", env))
	assert.Equal(t, []string{"match.accepted"}, pub.keys)
	assert.Equal(t, "req-1", env.RequestID)
	assert.NotEmpty(t, env.OccurredAt)
}

func TestPublishEventReturnsError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("closed")}
	SetPublisher(pub)
	defer SetPublisher(nil)

	assert.Error(t, PublishEvent(context.Background(), "x", NewEnvelope("domain", "x", nil)))
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	assert.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: trace.SpanID{1}})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", TraceIDFromContext(ctx))
}
