package services

import (
	"context"
	"log"

	"vibe-service/internal/observability"
)

// bestEffort runs a secondary write whose primary effect has already
// succeeded. Its failure is logged and counted, never returned.
func bestEffort(ctx context.Context, op string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Printf("best-effort write failed op=%s err=%v", op, err)
		observability.IncBestEffortFailure(op)
	}
}

func publishDomainEvent(ctx context.Context, routingKey, name string, payload map[string]interface{}) {
	bestEffort(ctx, "publish_"+name, func(ctx context.Context) error {
		envelope := observability.NewEnvelope("domain_events", name, payload).
			WithTrace("", observability.TraceIDFromContext(ctx))
		return observability.PublishEvent(ctx, routingKey, envelope)
	})
}
