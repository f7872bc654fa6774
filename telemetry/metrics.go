// Package telemetry provides Prometheus metrics, correlation-id aware
// logging helpers and OpenTelemetry tracing setup.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	MessagesSeen     prometheus.Counter
	CommandsExecuted prometheus.Counter
	CommandsRefused  prometheus.Counter
	CronRuns         prometheus.Counter
	CronFailures     prometheus.Counter
	PointsAwarded    prometheus.Counter

	// Histograms (seconds)
	CommandDuration prometheus.Observer

	// Gauges
	StreamOnlineGauge prometheus.Gauge // 1=live,0=offline
	RafflePotGauge    prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_messages_seen_total", Help: "Number of inbound chat messages processed"})
		CommandsExecuted = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_commands_executed_total", Help: "Number of commands executed successfully"})
		CommandsRefused = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_commands_refused_total", Help: "Number of command invocations refused (gate or domain refusal)"})
		CronRuns = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_cron_runs_total", Help: "Number of completed cron job runs"})
		CronFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_cron_failures_total", Help: "Number of cron job runs that did not complete"})
		PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_points_awarded_total", Help: "Points granted by the periodic reward job"})
		CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bot_command_duration_seconds", Help: "Command execution duration seconds", Buckets: prometheus.DefBuckets})
		StreamOnlineGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bot_stream_online", Help: "Stream live=1 offline=0"})
		RafflePotGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bot_raffle_pot", Help: "Current open raffle pot size"})
	})
}

// SetStreamOnline sets the live-status gauge.
func SetStreamOnline(online bool) {
	if StreamOnlineGauge == nil {
		return
	}
	if online {
		StreamOnlineGauge.Set(1)
	} else {
		StreamOnlineGauge.Set(0)
	}
}

// SetRafflePot records the current pot size.
func SetRafflePot(n int) {
	if RafflePotGauge != nil {
		RafflePotGauge.Set(float64(n))
	}
}

// TimeCommand starts a command timer; the returned func records the
// duration when called.
func TimeCommand() func() {
	start := time.Now()
	return func() {
		if CommandDuration != nil {
			CommandDuration.Observe(time.Since(start).Seconds())
		}
	}
}

// Correlation ID helpers ----------------------------------------------------

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger carrying the corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
