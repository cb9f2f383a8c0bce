package feelnet

import (
	"math"
	"time"
)

// A Label is one of the three polarity classes a text can be assigned.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// labelOrder is the iteration order used everywhere a stable walk over
// labels matters. Exact score ties resolve positive before negative
// before neutral.
var labelOrder = []Label{Positive, Negative, Neutral}

// Labels returns the polarity classes in their documented order.
func Labels() []Label {
	out := make([]Label, len(labelOrder))
	copy(out, labelOrder)
	return out
}

// ScoreDistribution maps each polarity class to a non-negative share.
// A finalized distribution sums to 1.0 within floating tolerance.
type ScoreDistribution map[Label]float64

// Sum returns the total mass of the distribution.
func (s ScoreDistribution) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// normalized returns a fresh distribution scaled to sum to 1.0.
// A zero distribution normalizes to all-neutral.
func (s ScoreDistribution) normalized() ScoreDistribution {
	total := s.Sum()
	if total <= 0 {
		return ScoreDistribution{Positive: 0, Negative: 0, Neutral: 1}
	}
	out := make(ScoreDistribution, len(labelOrder))
	for _, l := range labelOrder {
		out[l] = s[l] / total
	}
	return out
}

// argmax returns the winning label. Ties resolve in labelOrder.
func (s ScoreDistribution) argmax() Label {
	best := labelOrder[0]
	bestScore := math.Inf(-1)
	for _, l := range labelOrder {
		if s[l] > bestScore {
			best = l
			bestScore = s[l]
		}
	}
	return best
}

// A Result is the immutable outcome of a single classification call.
type Result struct {
	Text       string            // Original input, untouched
	Normalized string            // Text actually fed to the classifiers
	Label      Label             // Final polarity class
	Confidence float64           // Combined share of the winning class, in [0,1]
	Scores     ScoreDistribution // Combined class shares, summing to 1.0
	Strategy   string            // Strategy that produced the result
	Elapsed    time.Duration     // Wall time spent classifying
}

// BatchStatistics is a derived, read-only view over a batch of results.
// The zero value is the empty-batch sentinel: Count is 0 and
// LabelDistribution is nil.
type BatchStatistics struct {
	Count             int
	LabelDistribution map[Label]float64
	MeanConfidence    float64
	TotalTime         time.Duration
	MeanTime          time.Duration
}

// compoundDeadband is the zero-centered interval treated as neutral.
// It keeps near-zero noise from flipping the label.
const compoundDeadband = 0.05

// labelForCompound maps a compound polarity score in [-1,1] to a class.
// Scores of exactly ±0.05 take the polar label.
func labelForCompound(compound float64) Label {
	switch {
	case compound >= compoundDeadband:
		return Positive
	case compound <= -compoundDeadband:
		return Negative
	default:
		return Neutral
	}
}
