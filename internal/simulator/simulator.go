// Package simulator stands in for the civil registry backend. Every call
// resolves after a configured delay, optionally failing at random.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"civreg/internal/platform/metrics"
	"civreg/internal/wizard"
)

// ErrRejected is the simulated backend refusal.
var ErrRejected = errors.New("simulated backend rejected the request")

// Config tunes delays and the random failure rate.
type Config struct {
	SubmitDelay time.Duration
	ActionDelay time.Duration
	FailureRate float64
}

// Backend is the simulated registry.
type Backend struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	roll    func() float64
	clock   func() time.Time
}

// Option customizes a Backend.
type Option func(*Backend)

// WithMetrics records submission outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Backend) { b.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(b *Backend) { b.tracer = t }
}

// WithRoll replaces the random source used for failure injection. It must
// return values in [0,1).
func WithRoll(roll func() float64) Option {
	return func(b *Backend) { b.roll = roll }
}

// WithClock sets the clock stamped on results.
func WithClock(clock func() time.Time) Option {
	return func(b *Backend) { b.clock = clock }
}

// New builds a Backend.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Backend {
	b := &Backend{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("civreg/simulator"),
		roll:   rand.Float64,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Submit resolves the submission on the returned channel after SubmitDelay.
// The channel receives exactly one Result and is then closed. Cancelling ctx
// abandons the work and yields OutcomeCancelled.
func (b *Backend) Submit(ctx context.Context, s wizard.Submission) <-chan wizard.Result {
	out := make(chan wizard.Result, 1)
	ctx, span := b.tracer.Start(ctx, "simulator.submit", trace.WithAttributes(
		attribute.String("civreg.wizard", s.Wizard),
		attribute.Int("civreg.attempt", s.Attempt),
	))

	go func() {
		defer close(out)
		defer span.End()
		start := time.Now()

		res := b.resolve(ctx, b.cfg.SubmitDelay, s.Wizard)
		switch res.Outcome {
		case wizard.OutcomeFailed:
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		case wizard.OutcomeCancelled:
			span.SetStatus(codes.Error, "cancelled")
		default:
			span.SetAttributes(attribute.String("civreg.reference", res.Reference))
			span.SetStatus(codes.Ok, "")
		}

		b.metrics.ObserveSubmission(s.Wizard, string(res.Outcome), time.Since(start))
		b.logger.InfoContext(ctx, "submission resolved",
			"wizard", s.Wizard,
			"session_id", s.Session,
			"attempt", s.Attempt,
			"outcome", res.Outcome,
			"reference", res.Reference,
		)
		out <- res
	}()
	return out
}

// Action blocks for ActionDelay to mimic a round-trip such as login or a
// reviewer decision. It fails when ctx ends first or the roll says so.
func (b *Backend) Action(ctx context.Context, name string) error {
	ctx, span := b.tracer.Start(ctx, "simulator.action", trace.WithAttributes(
		attribute.String("civreg.action", name),
	))
	defer span.End()

	res := b.resolve(ctx, b.cfg.ActionDelay, name)
	if res.Outcome == wizard.OutcomeSucceeded {
		return nil
	}
	span.RecordError(res.Err)
	span.SetStatus(codes.Error, res.Err.Error())
	return res.Err
}

func (b *Backend) resolve(ctx context.Context, delay time.Duration, label string) wizard.Result {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return wizard.Result{Outcome: wizard.OutcomeCancelled, Err: ctx.Err(), CompletedAt: b.clock()}
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return wizard.Result{Outcome: wizard.OutcomeCancelled, Err: err, CompletedAt: b.clock()}
	}

	if b.cfg.FailureRate > 0 && b.roll() < b.cfg.FailureRate {
		return wizard.Result{
			Outcome:     wizard.OutcomeFailed,
			Err:         fmt.Errorf("%s: %w", label, ErrRejected),
			CompletedAt: b.clock(),
		}
	}
	return wizard.Result{
		Outcome:     wizard.OutcomeSucceeded,
		Reference:   reference(b.clock()),
		CompletedAt: b.clock(),
	}
}

// reference renders a registry number like NAI-2024-1A2B3C4D.
func reference(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("NAI-%d-%s", now.Year(), id[:8])
}
