package feelnet

import (
	"math"
	"strings"
	"sync"
)

// maxModelInput is the hard input cap applied before model inference.
// Longer text is truncated, never rejected.
const maxModelInput = 512

// ModelClassifier wraps a pretrained maxent model. The model handle is
// initialized lazily and exactly once; a load failure is latched so
// every subsequent call goes straight to the keyword fallback instead
// of retrying an expensive load. A classification request never fails
// because the model is unavailable.
type ModelClassifier struct {
	path      string
	tokenizer *tokenizer

	once     sync.Once
	model    *maxentModel
	degraded bool
	loadErr  error
}

// NewModelClassifier builds the model strategy for the given model file
// path. The file is not touched until the first Classify call.
func NewModelClassifier(path string) *ModelClassifier {
	return &ModelClassifier{
		path:      path,
		tokenizer: newTokenizer(),
	}
}

// Name implements Classifier.
func (mc *ModelClassifier) Name() string { return "model" }

// Ready reports whether the model loaded; false before the first call
// and after a latched load failure.
func (mc *ModelClassifier) Ready() bool {
	return mc.model != nil
}

// LoadErr returns the latched load failure, or nil when the model
// loaded, no load was attempted, or no path was configured.
func (mc *ModelClassifier) LoadErr() error {
	return mc.loadErr
}

// Classify implements Classifier.
func (mc *ModelClassifier) Classify(text string) (Outcome, error) {
	mc.once.Do(mc.initModel)

	if runes := []rune(text); len(runes) > maxModelInput {
		text = string(runes[:maxModelInput])
	}

	if mc.degraded {
		return mc.fallback(text), nil
	}

	probs := mc.model.classify(textFeatures(mc.tokenizer.Tokenize(text)))
	scores := mc.parseScores(probs)

	label := scores.argmax()
	return Outcome{
		Label:      label,
		Confidence: scores[label],
		Scores:     scores,
	}, nil
}

func (mc *ModelClassifier) initModel() {
	if mc.path == "" {
		mc.degraded = true
		return
	}
	model, err := loadMaxentModel(mc.path)
	if err != nil {
		mc.degraded = true
		mc.loadErr = err
		return
	}
	mc.model = model
}

// parseScores maps the model's label probabilities onto the three-way
// distribution. A binary model gets a small fixed neutral component so
// weak text is not forced polar.
func (mc *ModelClassifier) parseScores(probs map[string]float64) ScoreDistribution {
	scores := ScoreDistribution{}
	for raw, p := range probs {
		switch Label(strings.ToLower(raw)) {
		case Positive:
			scores[Positive] = p
		case Negative:
			scores[Negative] = p
		case Neutral:
			scores[Neutral] = p
		}
	}

	if scores[Neutral] == 0 {
		total := scores[Positive] + scores[Negative]
		if total > 0 {
			const neutralComponent = 0.1
			scores[Positive] *= 1 - neutralComponent
			scores[Negative] *= 1 - neutralComponent
			scores[Neutral] = neutralComponent
		}
	}

	return scores.normalized()
}

// Fallback keyword lexicons. Deliberately tiny: the fallback trades
// accuracy for zero dependencies on model availability.
var fallbackPositive = []string{
	"good", "great", "excellent", "amazing", "wonderful",
	"fantastic", "love", "like", "best", "awesome",
}

var fallbackNegative = []string{
	"bad", "terrible", "awful", "horrible", "hate",
	"worst", "poor", "disappointing", "sad", "angry",
}

// fallback is the deterministic keyword-count classifier used whenever
// the model cannot serve. Confidence scales with hit density.
func (mc *ModelClassifier) fallback(text string) Outcome {
	lower := strings.ToLower(text)

	posCount, negCount := 0, 0
	for _, w := range fallbackPositive {
		if strings.Contains(lower, w) {
			posCount++
		}
	}
	for _, w := range fallbackNegative {
		if strings.Contains(lower, w) {
			negCount++
		}
	}

	totalWords := len(strings.Fields(text))
	density := math.Max(float64(totalWords)*0.1, 1)

	var (
		label      Label
		confidence float64
		scores     ScoreDistribution
	)
	switch {
	case posCount > negCount:
		label = Positive
		confidence = math.Min(0.8, float64(posCount)/density)
		scores = ScoreDistribution{
			Positive: confidence,
			Negative: (1 - confidence) * 0.3,
			Neutral:  (1 - confidence) * 0.7,
		}
	case negCount > posCount:
		label = Negative
		confidence = math.Min(0.8, float64(negCount)/density)
		scores = ScoreDistribution{
			Positive: (1 - confidence) * 0.3,
			Negative: confidence,
			Neutral:  (1 - confidence) * 0.7,
		}
	default:
		label = Neutral
		confidence = 0.6
		scores = ScoreDistribution{Positive: 0.3, Negative: 0.3, Neutral: 0.4}
	}

	return Outcome{
		Label:      label,
		Confidence: confidence,
		Scores:     scores.normalized(),
	}
}
