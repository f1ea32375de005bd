package interview

import (
	"context"
	"errors"
	"log/slog"
)

// composeSummary closes out an interview. Scores with recorded failures are
// excluded from the aggregate; when no valid scores remain the candidate is
// told so instead of being shown fabricated numbers. Summary generation
// failures degrade to a deterministic report built from the same aggregate.
func (o *Orchestrator) composeSummary(ctx context.Context, session *Session) string {
	agg, err := aggregateScores(session.Scores)
	if err != nil {
		if !errors.Is(err, ErrNoValidScores) {
			logger.ErrorContext(ctx, "failed to aggregate scores", slog.Any("error", err))
		}
		return noScoresMessage
	}

	return callWithFallback(ctx, "summary generation",
		func(cause error) string { return fallbackReport(session, agg, cause) },
		func(ctx context.Context) (string, error) {
			return o.generator.generate(ctx, summaryMessages(session, agg), summaryTemperature)
		},
	)
}
