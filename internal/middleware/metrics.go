package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "farmfit_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// RedisCommands counts issued Redis commands by command name.
var RedisCommands = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "farmfit_redis_commands_total",
	Help: "Total number of Redis commands issued.",
}, []string{"command"})

// RatingEvents counts rating lifecycle events by type (created, edited,
// deleted, voted, reported, flagged).
var RatingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "farmfit_rating_events_total",
	Help: "Total number of rating lifecycle events.",
}, []string{"event"})

// ActiveWebSockets is the gauge of currently open websocket connections.
var ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "farmfit_websocket_connections_active",
	Help: "Number of active WebSocket connections.",
})

// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
var WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "farmfit_websocket_backpressure_drops_total",
	Help: "Total number of WebSocket messages dropped due to backpressure.",
}, []string{"hub", "reason"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
