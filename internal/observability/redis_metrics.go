package observability

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentRedisClient adds command and pool metrics to the rate limiter's
// Redis client. A nil client is ignored.
func InstrumentRedisClient(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	hook, err := newRedisMetricsHook(otel.GetMeterProvider().Meter("product-inventory-admin"), client.PoolStats)
	if err != nil {
		logger.Warn("redis metrics disabled", "error", err)
		return
	}
	client.AddHook(hook)
}

type redisMetricsHook struct {
	commands metric.Int64Counter
	latency  metric.Float64Histogram
}

func newRedisMetricsHook(meter metric.Meter, poolStats func() *redis.PoolStats) (*redisMetricsHook, error) {
	commands, err := meter.Int64Counter("redis.command.total",
		metric.WithDescription("Redis commands issued by the API, by command and status"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("redis.command.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Redis command latency"))
	if err != nil {
		return nil, err
	}
	saturation, err := meter.Float64ObservableGauge("redis.pool.saturation",
		metric.WithUnit("1"),
		metric.WithDescription("Share of pooled connections in use"))
	if err != nil {
		return nil, err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		if stats := poolStats(); stats != nil && stats.TotalConns > 0 {
			used := float64(stats.TotalConns - stats.IdleConns)
			o.ObserveFloat64(saturation, min(max(used/float64(stats.TotalConns), 0), 1))
		}
		return nil
	}, saturation)
	if err != nil {
		return nil, err
	}
	return &redisMetricsHook{commands: commands, latency: latency}, nil
}

func (h *redisMetricsHook) record(ctx context.Context, command string, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", redisCommandStatus(err)),
	)
	h.commands.Add(ctx, 1, attrs)
	h.latency.Record(ctx, elapsed.Seconds(), attrs)
}

func (h *redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, strings.ToLower(cmd.Name()), err, time.Since(start))
		return err
	}
}

func (h *redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.record(ctx, "pipeline", err, time.Since(start))
		return err
	}
}

func redisCommandStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, redis.Nil):
		return "miss"
	case strings.Contains(strings.ToLower(err.Error()), "timeout"):
		return "timeout"
	default:
		return "error"
	}
}
