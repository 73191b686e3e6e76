package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_http_requests_total",
			Help: "Total number of HTTP requests processed by the vibe service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vibe_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	chatsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_chats_created_total",
			Help: "Event chats created through the join flow.",
		},
	)
	chatQuotaRefusalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_chat_quota_refusals_total",
			Help: "Chat creations refused by the free-tier daily limit.",
		},
	)
	matchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_match_outcomes_total",
			Help: "Vibrar requests by outcome.",
		},
		[]string{"outcome"},
	)
	bestEffortFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_best_effort_failures_total",
			Help: "Secondary writes that failed after the primary effect succeeded.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		chatsCreatedTotal,
		chatQuotaRefusalsTotal,
		matchOutcomesTotal,
		bestEffortFailuresTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncChatCreated() {
	chatsCreatedTotal.Inc()
}

func IncChatQuotaRefusal() {
	chatQuotaRefusalsTotal.Inc()
}

func IncMatchOutcome(outcome string) {
	matchOutcomesTotal.WithLabelValues(outcome).Inc()
}

func IncBestEffortFailure(op string) {
	bestEffortFailuresTotal.WithLabelValues(op).Inc()
}
