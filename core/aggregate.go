package interview

import (
	"errors"
	"math"

	"github.com/prepmate/interview-core/core/scoring"
)

// ErrNoValidScores signals that every recorded score is an error sentinel,
// so no aggregate can be computed.
var ErrNoValidScores = errors.New("no valid scores recorded")

// aggregate is the per-dimension average over all valid score records plus
// the combined, deduplicated qualitative feedback.
type aggregate struct {
	Communication int
	Technical     int
	Behavioral    int
	Structure     int

	Strengths    []string
	Improvements []string

	ValidCount int
}

// aggregateScores filters out failed records and averages the rest. A
// session mixing valid and failed scoring calls still produces a valid
// partial aggregate; only a session with zero valid records errors.
func aggregateScores(records []scoring.Record) (aggregate, error) {
	var agg aggregate
	var communication, technical, behavioral, structure int

	for _, record := range records {
		if record.Failed() {
			continue
		}

		agg.ValidCount++
		communication += record.Communication
		technical += record.Technical
		behavioral += record.Behavioral
		structure += record.Structure
		agg.Strengths = append(agg.Strengths, record.Strengths...)
		agg.Improvements = append(agg.Improvements, record.Improvements...)
	}

	if agg.ValidCount == 0 {
		return aggregate{}, ErrNoValidScores
	}

	agg.Communication = roundedAverage(communication, agg.ValidCount)
	agg.Technical = roundedAverage(technical, agg.ValidCount)
	agg.Behavioral = roundedAverage(behavioral, agg.ValidCount)
	agg.Structure = roundedAverage(structure, agg.ValidCount)
	agg.Strengths = dedupe(agg.Strengths)
	agg.Improvements = dedupe(agg.Improvements)

	return agg, nil
}

func roundedAverage(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	deduped := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		deduped = append(deduped, value)
	}
	return deduped
}

func capped(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
