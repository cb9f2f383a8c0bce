package feelnet

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// stubClassifier is a canned test double for exercising the combiner
// without the real strategies.
type stubClassifier struct {
	name string
	out  Outcome
	err  error
}

func (s stubClassifier) Name() string { return s.name }

func (s stubClassifier) Classify(string) (Outcome, error) {
	return s.out, s.err
}

func stubOutcome(label Label, scores ScoreDistribution) Outcome {
	return Outcome{Label: label, Confidence: scores[label], Scores: scores}
}

func newStubEngine(classifiers ...Classifier) *Engine {
	return &Engine{
		classifiers: classifiers,
		weights:     renormalizeWeights(classifiers, nil),
		normalizer:  NewNormalizer(DefaultNormalizationConfig()),
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	tests := []struct {
		text     string
		expected Label
		polar    bool
		desc     string
	}{
		{"I absolutely love this, it's fantastic!", Positive, true, "Clear positive"},
		{"Terrible, broken, worst purchase ever.", Negative, true, "Clear negative"},
		{"It arrived on Tuesday.", Neutral, false, "No sentiment"},
	}

	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result, err := engine.Analyze(tt.text)
			if err != nil {
				t.Fatalf("Analyze(%q) failed: %v", tt.text, err)
			}
			if result.Label != tt.expected {
				t.Errorf("Text: %q\nExpected label: %s\nGot: %s (scores %v)",
					tt.text, tt.expected, result.Label, result.Scores)
			}
			if diff := math.Abs(result.Scores.Sum() - 1.0); diff > 1e-6 {
				t.Errorf("scores sum to %v, want 1.0", result.Scores.Sum())
			}
			if result.Confidence <= 0 || result.Confidence > 1 {
				t.Errorf("confidence %v out of range", result.Confidence)
			}
			if tt.polar && result.Confidence <= 0.5 {
				t.Errorf("confidence %v for clear %s text, want > 0.5", result.Confidence, tt.expected)
			}
			if result.Strategy != StrategyEnsemble {
				t.Errorf("strategy = %q, want %q", result.Strategy, StrategyEnsemble)
			}
			if result.Text != tt.text {
				t.Errorf("original text not preserved: %q", result.Text)
			}
		})
	}
}

func TestAnalyzeWith(t *testing.T) {
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatal(err)
	}

	for _, strategy := range []string{StrategyLexicon, StrategyPolarity, StrategyModel} {
		result, err := engine.AnalyzeWith(strategy, "I love it")
		if err != nil {
			t.Fatalf("AnalyzeWith(%s) failed: %v", strategy, err)
		}
		if result.Strategy != strategy {
			t.Errorf("strategy = %q, want %q", result.Strategy, strategy)
		}
		if result.Label != Positive {
			t.Errorf("%s: label = %s, want %s", strategy, result.Label, Positive)
		}
	}

	result, err := engine.AnalyzeWith(StrategyEnsemble, "I love it")
	if err != nil {
		t.Fatal(err)
	}
	if result.Strategy != StrategyEnsemble {
		t.Errorf("strategy = %q, want %q", result.Strategy, StrategyEnsemble)
	}

	if _, err := engine.AnalyzeWith("bogus", "text"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestUnknownConfiguredStrategy(t *testing.T) {
	// A bad strategy name in the configuration surfaces on the first
	// call, not at construction.
	engine, err := NewEngine(Config{Strategies: []string{StrategyLexicon, "bogus"}})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	if _, err := engine.Analyze("some text"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestAnalyzePartialFailure(t *testing.T) {
	// One failing strategy is skipped; the survivors' combined
	// distribution renormalizes to a valid verdict.
	healthy := stubClassifier{
		name: "healthy",
		out:  stubOutcome(Positive, ScoreDistribution{Positive: 0.7, Negative: 0.1, Neutral: 0.2}),
	}
	broken := stubClassifier{name: "broken", err: errors.New("backend down")}

	engine := newStubEngine(healthy, broken)

	result, err := engine.Analyze("anything")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Label != Positive {
		t.Errorf("label = %s, want %s", result.Label, Positive)
	}
	if diff := math.Abs(result.Scores.Sum() - 1.0); diff > 1e-6 {
		t.Errorf("scores sum to %v, want 1.0", result.Scores.Sum())
	}
	// With a single survivor the combined distribution equals its own.
	if diff := math.Abs(result.Scores[Positive] - 0.7); diff > 1e-9 {
		t.Errorf("positive share = %v, want 0.7", result.Scores[Positive])
	}
}

func TestAnalyzeTotalFailure(t *testing.T) {
	engine := newStubEngine(
		stubClassifier{name: "a", err: errors.New("down")},
		stubClassifier{name: "b", err: errors.New("also down")},
	)

	if _, err := engine.Analyze("anything"); !errors.Is(err, ErrNoClassifiers) {
		t.Errorf("expected ErrNoClassifiers, got %v", err)
	}
}

func TestWeightRenormalization(t *testing.T) {
	lexicon := stubClassifier{name: StrategyLexicon}
	polarity := stubClassifier{name: StrategyPolarity}
	model := stubClassifier{name: StrategyModel}

	full := renormalizeWeights([]Classifier{lexicon, polarity, model}, nil)
	partial := renormalizeWeights([]Classifier{lexicon, polarity}, nil)

	for _, weights := range []map[string]float64{full, partial} {
		var sum float64
		for _, w := range weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("weights sum to %v, want 1.0", sum)
		}
	}

	// Removing a strategy must not change the ratio between the
	// remaining weights.
	fullRatio := full[StrategyLexicon] / full[StrategyPolarity]
	partialRatio := partial[StrategyLexicon] / partial[StrategyPolarity]
	if math.Abs(fullRatio-partialRatio) > 1e-9 {
		t.Errorf("weight ratio changed: %v vs %v", fullRatio, partialRatio)
	}

	if _, found := partial[StrategyModel]; found {
		t.Error("inactive strategy received a weight")
	}

	overridden := renormalizeWeights([]Classifier{lexicon, polarity}, map[string]float64{
		StrategyLexicon:  1,
		StrategyPolarity: 3,
	})
	if math.Abs(overridden[StrategyLexicon]-0.25) > 1e-9 {
		t.Errorf("lexicon weight = %v, want 0.25", overridden[StrategyLexicon])
	}
	if math.Abs(overridden[StrategyPolarity]-0.75) > 1e-9 {
		t.Errorf("polarity weight = %v, want 0.75", overridden[StrategyPolarity])
	}
}

func TestDefaultStrategySet(t *testing.T) {
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(engine.classifiers) != 3 {
		t.Errorf("got %d classifiers, want 3", len(engine.classifiers))
	}
}

func TestAnalyzeBatch(t *testing.T) {
	// The stub errors on empty input so the middle item exercises the
	// batch path's sentinel substitution.
	quirky := quirkStub{}
	engine := newStubEngine(quirky)

	texts := []string{"I love this!", "", "Terrible, worst ever."}
	results := engine.AnalyzeBatch(texts)

	if len(results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(results), len(texts))
	}

	if results[0].Label != Positive {
		t.Errorf("first item label = %s, want %s", results[0].Label, Positive)
	}
	if results[2].Label != Negative {
		t.Errorf("third item label = %s, want %s", results[2].Label, Negative)
	}

	sentinel := results[1]
	if sentinel.Label != Neutral {
		t.Errorf("sentinel label = %s, want %s", sentinel.Label, Neutral)
	}
	if sentinel.Confidence != 0 {
		t.Errorf("sentinel confidence = %v, want 0", sentinel.Confidence)
	}
	if sentinel.Scores[Neutral] != 1 {
		t.Errorf("sentinel scores = %v, want all-neutral", sentinel.Scores)
	}

	stats := Aggregate(results)
	if stats.Count != 3 {
		t.Errorf("stats count = %d, want 3", stats.Count)
	}
}

// quirkStub fails on empty input and keys its verdict off the text
// content otherwise.
type quirkStub struct{}

func (quirkStub) Name() string { return "quirk" }

func (quirkStub) Classify(text string) (Outcome, error) {
	switch {
	case text == "":
		return Outcome{}, errors.New("empty input")
	case strings.Contains(text, "love"):
		return stubOutcome(Positive, ScoreDistribution{Positive: 0.8, Negative: 0.1, Neutral: 0.1}), nil
	default:
		return stubOutcome(Negative, ScoreDistribution{Positive: 0.1, Negative: 0.8, Neutral: 0.1}), nil
	}
}

func TestEngineNormalize(t *testing.T) {
	engine, err := NewEngine(Config{Normalization: DefaultNormalizationConfig()})
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.Normalize("<b>Hello</b> WORLD"); got != "hello world" {
		t.Errorf("Normalize = %q, want %q", got, "hello world")
	}
}
