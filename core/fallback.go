package interview

import (
	"context"

	"go.opentelemetry.io/otel/codes"
)

// callWithFallback runs one gateway call and substitutes the fallback value
// on any failure. All gateway invocations go through here so the fail-soft
// behavior stays uniform: the failure is recorded on the span and logged,
// and the caller always gets a usable value.
func callWithFallback[T any](
	ctx context.Context,
	name string,
	fallback func(err error) T,
	call func(ctx context.Context) (T, error),
) T {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	result, err := call(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "gateway call failed, substituting fallback", "call", name, "error", err)
		return fallback(err)
	}

	return result
}
