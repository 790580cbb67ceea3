// Package middleware wraps payment clients with cross-cutting behavior.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/grouprequest/internal/metrics"
	"github.com/mmynk/grouprequest/internal/payment"
)

// loggingClient logs every payment call and records its latency.
type loggingClient struct {
	next    payment.Client
	metrics *metrics.Metrics
}

// Logging returns a client that logs each call made through next, with the
// target, run ID, duration, and any error. m may be nil.
func Logging(next payment.Client, m *metrics.Metrics) payment.Client {
	return &loggingClient{next: next, metrics: m}
}

func (c *loggingClient) EnsureSession(ctx context.Context) error {
	start := time.Now()
	err := c.next.EnsureSession(ctx)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		slog.Error("Session check failed", "error", err, "duration_ms", duration)
	} else {
		slog.Debug("Session ok", "duration_ms", duration)
	}
	return err
}

func (c *loggingClient) RequestMoney(ctx context.Context, target string, amount decimal.Decimal, note string) error {
	start := time.Now()
	runID := GetRunID(ctx)

	err := c.next.RequestMoney(ctx, target, amount, note)

	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveRequest(elapsed, err)
	}

	duration := elapsed.Milliseconds()
	if err != nil {
		var apiErr *payment.APIError
		if errors.As(err, &apiErr) {
			slog.Warn("Payment request rejected",
				"target", target,
				"status", apiErr.Status,
				"error", apiErr.Message,
				"run_id", runID,
				"duration_ms", duration,
			)
		} else {
			slog.Error("Payment request error",
				"target", target,
				"error", err,
				"run_id", runID,
				"duration_ms", duration,
			)
		}
	} else {
		slog.Info("Payment request ok",
			"target", target,
			"amount", amount.StringFixed(2),
			"run_id", runID,
			"duration_ms", duration,
		)
	}

	return err
}
