// Package sweeper escalates overdue grievances on a timer. It is an optional
// policy layer over the lifecycle engine: detection stays available through
// the query surface whether or not the sweeper runs.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"gramseva/internal/grievance/models"
	"gramseva/pkg/domain"
)

// DefaultInterval is how often the sweep runs unless configured otherwise.
const DefaultInterval = time.Hour

// listRetries bounds the backoff retries of the overdue scan per tick. The
// escalation calls themselves are never retried; a failed escalation is
// picked up again on the next tick.
const listRetries = 3

// Engine is the slice of the lifecycle engine the sweeper drives.
type Engine interface {
	ListOverdue(ctx context.Context) ([]*models.Grievance, error)
	Escalate(ctx context.Context, id domain.GrievanceID, req *models.EscalateRequest) (*models.Grievance, error)
}

type Sweeper struct {
	engine   Engine
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

type Option func(*Sweeper)

func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

func New(engine Engine, logger *slog.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		engine:   engine,
		logger:   logger,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "overdue sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "overdue sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep escalates every overdue grievance that has not already been
// escalated since its due date passed.
func (s *Sweeper) Sweep(ctx context.Context) {
	var overdue []*models.Grievance
	list := func() error {
		var err error
		overdue, err = s.engine.ListOverdue(ctx)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), listRetries), ctx)
	if err := backoff.Retry(list, policy); err != nil {
		s.logger.ErrorContext(ctx, "overdue scan failed", slog.String("error", err.Error()))
		return
	}

	for _, g := range overdue {
		if !s.needsEscalation(g) {
			continue
		}
		_, err := s.engine.Escalate(ctx, g.ID, &models.EscalateRequest{
			Reason: autoReason(g),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "auto-escalation failed",
				slog.String("grievance_id", g.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.logger.InfoContext(ctx, "grievance auto-escalated",
			slog.String("grievance_id", g.ID.String()),
			slog.String("grievance_number", g.Number),
		)
	}
}

// needsEscalation filters out grievances already escalated since their due
// date passed, so one missed deadline triggers exactly one escalation.
func (s *Sweeper) needsEscalation(g *models.Grievance) bool {
	if g.DueDate == nil || !g.DueDate.Before(s.now()) {
		return false
	}
	return g.EscalatedAt == nil || g.EscalatedAt.Before(*g.DueDate)
}

func autoReason(g *models.Grievance) string {
	return fmt.Sprintf(
		"Automatic escalation of grievance %s: the resolution due date of %s passed without the grievance being resolved, so it has been moved to the next authority level for review and reassignment.",
		g.Number, g.DueDate.Format(time.RFC3339),
	)
}
