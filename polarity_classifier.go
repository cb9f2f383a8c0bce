package feelnet

import (
	"math"
)

// PolarityClassifier derives a single scalar polarity in [-1,1] by
// averaging per-word valence, then synthesizes a three-way distribution
// from the scalar. Weak-polarity text always keeps a non-zero neutral
// component so it is never forced into positive or negative.
type PolarityClassifier struct {
	lexicon   *Lexicon
	tokenizer *tokenizer
}

// NewPolarityClassifier builds the polarity strategy.
func NewPolarityClassifier(lexicon *Lexicon) *PolarityClassifier {
	return &PolarityClassifier{
		lexicon:   lexicon,
		tokenizer: newTokenizer(),
	}
}

// Name implements Classifier.
func (pc *PolarityClassifier) Name() string { return "polarity" }

// Classify implements Classifier.
func (pc *PolarityClassifier) Classify(text string) (Outcome, error) {
	polarity, subjectivity := pc.polarity(text)

	scores := synthesizeScores(polarity)
	label := labelForCompound(polarity)

	var confidence float64
	switch label {
	case Positive:
		confidence = polarity
	case Negative:
		confidence = -polarity
	default:
		confidence = 1 - math.Abs(polarity)
	}
	// Dampen confidence for barely-subjective text.
	if subjectivity < 0.3 {
		confidence *= 0.8
	}

	return Outcome{
		Label:      label,
		Confidence: clamp01(confidence),
		Scores:     scores,
	}, nil
}

// polarity returns the mean adjusted valence of lexicon hits and the
// hit density as a subjectivity proxy.
func (pc *PolarityClassifier) polarity(text string) (float64, float64) {
	tokens := pc.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return 0, 0
	}

	var total float64
	hits := 0

	for i, token := range tokens {
		valence := pc.lexicon.Valence(token)
		if valence == 0 {
			continue
		}

		// Nearest preceding modifier scales the word.
		start := maxInt(0, i-2)
		for j := start; j < i; j++ {
			if m := pc.lexicon.ModifierStrength(tokens[j]); m != 0 {
				valence *= 1 + m
				break
			}
		}
		// A negation ahead of the word flips it.
		for j := start; j < i; j++ {
			if pc.lexicon.IsNegation(tokens[j]) {
				valence = -valence * negationDampen
				break
			}
		}

		total += valence
		hits++
	}

	if hits == 0 {
		return 0, 0
	}

	polarity := total / float64(hits)
	polarity = math.Max(-1, math.Min(1, polarity))
	subjectivity := math.Min(1, float64(hits)/float64(len(tokens))*2)

	return polarity, subjectivity
}

// synthesizeScores maps a scalar polarity onto a distribution over the
// three classes. The neutral component is derived from 1-|polarity| so
// a weak scalar keeps neutral mass.
func synthesizeScores(polarity float64) ScoreDistribution {
	if polarity == 0 {
		return ScoreDistribution{Positive: 0.33, Negative: 0.33, Neutral: 0.34}.normalized()
	}

	normalized := (polarity + 1) / 2
	scores := ScoreDistribution{
		Positive: normalized,
		Negative: 1 - normalized,
		Neutral:  (1 - math.Abs(polarity)) * 0.5,
	}
	return scores.normalized()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
