// Package feelnet classifies free-form text into a polarity class by
// combining several independent classification strategies into one
// weighted verdict.
package feelnet

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsawler/feelnet/internal/log"
)

// Strategy names accepted in Config.Strategies and AnalyzeWith.
const (
	StrategyLexicon  = "lexicon"
	StrategyPolarity = "polarity"
	StrategyModel    = "model"
	StrategyEnsemble = "ensemble"
)

var (
	// ErrNoClassifiers is returned when every configured strategy
	// failed for a call. It is a distinct condition, never masked as a
	// low-confidence neutral result.
	ErrNoClassifiers = errors.New("no classifiers available")

	// ErrUnknownStrategy is returned when a requested strategy name
	// does not exist.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// defaultWeights is the standard per-strategy weight table.
var defaultWeights = map[string]float64{
	StrategyLexicon:  0.4, // Good for informal review text
	StrategyPolarity: 0.3, // Good for general text
	StrategyModel:    0.3, // Most accurate when a model is present
}

// Config fixes an Engine's behavior at construction. The engine never
// reads configuration from ambient state during a call.
type Config struct {
	// Strategies selects the active classifiers. Empty means all
	// built-in strategies.
	Strategies []string

	// Weights overrides the default per-strategy weights. Weights are
	// renormalized to sum to 1.0 over the active strategies.
	Weights map[string]float64

	// Normalization configures the full cleanup pipeline exposed by
	// (*Engine).Normalize. Classification always uses the reduced
	// sentiment-preserving pipeline.
	Normalization NormalizationConfig

	// ModelPath points at the pretrained model file for the model
	// strategy. Empty means the model strategy runs on its fallback.
	ModelPath string

	// LexiconPath optionally merges an external JSON lexicon over the
	// built-in word lists.
	LexiconPath string

	// Logger receives diagnostic messages. Nil means silent.
	Logger *log.Logger
}

// Engine is the ensemble combiner. It is stateless across calls apart
// from immutable configuration and the lazily-initialized model handle
// inside the model strategy.
type Engine struct {
	classifiers []Classifier
	weights     map[string]float64
	normalizer  *Normalizer
	logger      *log.Logger

	// Unknown strategy names are held back and surfaced on the first
	// call, not at construction.
	unknown []string
}

// NewEngine builds an ensemble engine from the given configuration.
func NewEngine(config Config) (*Engine, error) {
	lexicon, err := NewLexiconWithExternal(config.LexiconPath)
	if err != nil {
		return nil, err
	}

	names := config.Strategies
	if len(names) == 0 {
		names = []string{StrategyLexicon, StrategyPolarity, StrategyModel}
	}

	e := &Engine{
		normalizer: NewNormalizer(config.Normalization),
		logger:     config.Logger,
	}

	for _, name := range names {
		switch name {
		case StrategyLexicon:
			e.classifiers = append(e.classifiers, NewLexiconClassifier(lexicon))
		case StrategyPolarity:
			e.classifiers = append(e.classifiers, NewPolarityClassifier(lexicon))
		case StrategyModel:
			e.classifiers = append(e.classifiers, NewModelClassifier(config.ModelPath))
		default:
			e.unknown = append(e.unknown, name)
		}
	}

	e.weights = renormalizeWeights(e.classifiers, config.Weights)
	e.logger.Printf("engine initialized with %d strategies", len(e.classifiers))

	return e, nil
}

// renormalizeWeights assigns each active classifier its configured (or
// default) weight and rescales so the active set sums to 1.0. Inactive
// strategies contribute zero, not a uniform share.
func renormalizeWeights(active []Classifier, overrides map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(active))
	var total float64
	for _, c := range active {
		w, ok := overrides[c.Name()]
		if !ok {
			if w, ok = defaultWeights[c.Name()]; !ok {
				w = 0.33
			}
		}
		weights[c.Name()] = w
		total += w
	}
	if total > 0 {
		for name := range weights {
			weights[name] /= total
		}
	}
	return weights
}

// Normalize runs the engine's full cleanup pipeline. Exposed for
// callers that want canonical text rather than a classification.
func (e *Engine) Normalize(text string) string {
	return e.normalizer.Normalize(text)
}

// Analyze classifies a single text with the full ensemble.
//
// Each active strategy runs in turn; a strategy that fails is logged
// and excluded from this call only, so one bad strategy degrades
// coverage, never availability. The combined distribution is
// renormalized by its own sum so partial failure still yields a valid
// distribution. If every strategy fails the call fails with
// ErrNoClassifiers.
func (e *Engine) Analyze(text string) (Result, error) {
	start := time.Now()

	if len(e.unknown) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, e.unknown[0])
	}
	if len(e.classifiers) == 0 {
		return Result{}, ErrNoClassifiers
	}

	normalized := e.normalizer.NormalizeForSentiment(text)

	combined := ScoreDistribution{}
	survivors := 0
	for _, c := range e.classifiers {
		outcome, err := c.Classify(normalized)
		if err != nil {
			e.logger.Printf("strategy %s failed: %v", c.Name(), err)
			continue
		}
		weight := e.weights[c.Name()]
		for _, label := range labelOrder {
			combined[label] += weight * outcome.Scores[label]
		}
		survivors++
	}

	if survivors == 0 {
		return Result{}, ErrNoClassifiers
	}

	combined = combined.normalized()
	label := combined.argmax()

	return Result{
		Text:       text,
		Normalized: normalized,
		Label:      label,
		Confidence: combined[label],
		Scores:     combined,
		Strategy:   StrategyEnsemble,
		Elapsed:    time.Since(start),
	}, nil
}

// AnalyzeWith classifies a single text with one named strategy. An
// unknown name fails at call time with ErrUnknownStrategy.
func (e *Engine) AnalyzeWith(strategy, text string) (Result, error) {
	start := time.Now()

	if strategy == StrategyEnsemble {
		return e.Analyze(text)
	}

	var classifier Classifier
	for _, c := range e.classifiers {
		if c.Name() == strategy {
			classifier = c
			break
		}
	}
	if classifier == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	normalized := e.normalizer.NormalizeForSentiment(text)
	outcome, err := classifier.Classify(normalized)
	if err != nil {
		return Result{}, fmt.Errorf("strategy %s: %w", strategy, err)
	}

	return Result{
		Text:       text,
		Normalized: normalized,
		Label:      outcome.Label,
		Confidence: outcome.Confidence,
		Scores:     outcome.Scores,
		Strategy:   strategy,
		Elapsed:    time.Since(start),
	}, nil
}

// AnalyzeBatch classifies each text in order. An item whose analysis
// fails is substituted with a neutral zero-confidence sentinel so one
// bad input never aborts the batch; the substitution stays visible in
// batch statistics through the neutral bucket.
func (e *Engine) AnalyzeBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		result, err := e.Analyze(text)
		if err != nil {
			e.logger.Printf("batch item %d failed: %v", i, err)
			result = neutralSentinel(text)
		}
		results = append(results, result)
	}
	return results
}

// neutralSentinel is the substitute result for a failed batch item.
func neutralSentinel(text string) Result {
	return Result{
		Text:       text,
		Label:      Neutral,
		Confidence: 0,
		Scores:     ScoreDistribution{Positive: 0, Negative: 0, Neutral: 1},
		Strategy:   StrategyEnsemble,
	}
}
