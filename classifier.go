package feelnet

// An Outcome is a single strategy's verdict for one text. Scores always
// sum to 1.0 within floating tolerance.
type Outcome struct {
	Label      Label
	Confidence float64
	Scores     ScoreDistribution
}

// A Classifier turns normalized text into a score distribution over the
// three polarity classes. The three built-in strategies are unrelated
// implementations sharing only this contract.
type Classifier interface {
	// Name returns the strategy name used for weighting and reporting.
	Name() string

	// Classify analyzes a single normalized text. Implementations must
	// return a distribution summing to 1.0, or an error; they never do
	// both.
	Classify(text string) (Outcome, error)
}
