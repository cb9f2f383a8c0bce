package feelnet

import "time"

// Aggregate computes distributional statistics over a batch of results.
// It is a pure function of its input and recomputed on each call.
//
// Label fractions are divided by the full count, not by the
// successfully-classified subset, so substituted sentinel items stay
// visible in the neutral bucket instead of silently shrinking the
// sample. Empty input yields the zero-value sentinel.
func Aggregate(results []Result) BatchStatistics {
	if len(results) == 0 {
		return BatchStatistics{}
	}

	counts := make(map[Label]int, len(labelOrder))
	var confidenceSum float64
	var totalTime time.Duration

	for _, r := range results {
		counts[r.Label]++
		confidenceSum += r.Confidence
		totalTime += r.Elapsed
	}

	n := len(results)
	distribution := make(map[Label]float64, len(labelOrder))
	for _, label := range labelOrder {
		distribution[label] = float64(counts[label]) / float64(n)
	}

	return BatchStatistics{
		Count:             n,
		LabelDistribution: distribution,
		MeanConfidence:    confidenceSum / float64(n),
		TotalTime:         totalTime,
		MeanTime:          totalTime / time.Duration(n),
	}
}
