// Package service implements the grievance lifecycle engine: the single
// writer for grievance state. Every operation is one atomic store mutation
// paired with exactly one audit entry.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gramseva/internal/grievance/metrics"
	"gramseva/internal/grievance/store"
)

const (
	// verificationWindow is how long the community has to confirm or dispute
	// a resolution after the official marks it resolved.
	verificationWindow = 7 * 24 * time.Hour

	// escalationWindow is the response deadline granted to the next
	// authority level after an escalation.
	escalationWindow = 10 * 24 * time.Hour

	// maxNumberAttempts bounds the grievance number re-roll on collision.
	maxNumberAttempts = 5
)

// Service is the lifecycle engine. Construct with New; the zero value is not
// usable.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
	number  func(year int) string
}

// Option configures optional Service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the time source. Tests use this to pin deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNumberSource overrides the grievance number generator. Tests use this
// to force collisions.
func WithNumberSource(number func(year int) string) Option {
	return func(s *Service) {
		if number != nil {
			s.number = number
		}
	}
}

// New constructs the engine over the given store.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: noop.NewTracerProvider().Tracer("gramseva/grievance"),
		now:    time.Now,
		number: defaultNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultNumber renders GR + 4-digit year + 5-digit random value. Uniqueness
// is enforced by the store; Create re-rolls on collision.
func defaultNumber(year int) string {
	return fmt.Sprintf("GR%04d%05d", year, rand.Intn(90000)+10000)
}
