// Package telemetry wraps service operations with tracing, metrics, panic
// recovery and outcome logging.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation describes the service running an operation.
type Operation struct {
	Service string
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics botmetrics.OperationMetrics
	// IsFailure reports errors that are expected business outcomes, such as
	// validation or permission errors. They are logged at warn level and do
	// not count as failures.
	IsFailure func(error) bool
}

// Run executes fn inside a span and records the outcome.
func Run[T any](
	ctx context.Context,
	o Operation,
	operationName string,
	identifier string,
	fn func(ctx context.Context) (T, error),
) (result T, err error) {
	var span trace.Span
	if o.Tracer != nil {
		ctx, span = o.Tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
			attribute.String("service", o.Service),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if o.Metrics != nil {
		o.Metrics.RecordOperationAttempt(ctx, operationName, o.Service)
	}

	startTime := time.Now()
	defer func() {
		if o.Metrics != nil {
			o.Metrics.RecordOperationDuration(ctx, operationName, o.Service, time.Since(startTime))
		}
	}()

	o.Logger.DebugContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			o.Logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if o.Metrics != nil {
				o.Metrics.RecordOperationFailure(ctx, operationName, o.Service)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			var zero T
			result = zero
		}
	}()

	result, err = fn(ctx)

	if err != nil {
		if o.IsFailure != nil && o.IsFailure(err) {
			o.Logger.WarnContext(ctx, "Operation returned failure result",
				attr.ExtractCorrelationID(ctx),
				attr.String("operation", operationName),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if o.Metrics != nil {
				o.Metrics.RecordOperationSuccess(ctx, operationName, o.Service)
			}
			return result, err
		}

		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		o.Logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if o.Metrics != nil {
			o.Metrics.RecordOperationFailure(ctx, operationName, o.Service)
		}
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	o.Logger.InfoContext(ctx, "Operation completed successfully",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)
	if o.Metrics != nil {
		o.Metrics.RecordOperationSuccess(ctx, operationName, o.Service)
	}
	return result, nil
}
