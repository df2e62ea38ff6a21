package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"gramseva/internal/sentinel"
	dErrors "gramseva/pkg/domain-errors"
)

// observe starts a span and timer for one engine operation. The returned
// done func records the outcome; call it exactly once.
func (s *Service) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "grievance."+op)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "grievance operation failed",
				slog.String("operation", op),
				slog.String("error", err.Error()),
			)
		}
		span.End()
		s.metrics.ObserveOperation(op, time.Since(start))
	}
}

// translate maps store failures onto the engine's error surface. Domain
// errors raised inside a mutation pass through untouched; unknown IDs become
// not-found; anything else is a transient storage failure the caller may
// retry, since the engine itself never does.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "grievance not found")
	}
	return dErrors.Wrap(err, dErrors.CodeStorage, msg)
}
