package feelnet

import (
	"strings"
	"testing"
)

func TestNormalizeStages(t *testing.T) {
	tests := []struct {
		name     string
		config   NormalizationConfig
		input    string
		expected string
	}{
		{
			"strips html tags",
			DefaultNormalizationConfig(),
			"<b>Great</b> product",
			"great product",
		},
		{
			"strips urls",
			DefaultNormalizationConfig(),
			"Check https://example.com now",
			"check now",
		},
		{
			"strips emails",
			DefaultNormalizationConfig(),
			"mail me at bob@example.com please",
			"mail me at please",
		},
		{
			"strips disallowed punctuation",
			NormalizationConfig{StripPunctuation: true},
			"50% off!",
			"50 off!",
		},
		{
			"preserves case when disabled",
			NormalizationConfig{StripHTML: true},
			"<i>Great</i> Product",
			"Great Product",
		},
		{
			"collapses whitespace",
			NormalizationConfig{},
			"  too \t many\n\nspaces  ",
			"too many spaces",
		},
		{
			"empty input",
			DefaultNormalizationConfig(),
			"",
			"",
		},
		{
			"whitespace-only input",
			DefaultNormalizationConfig(),
			"   \n\t ",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.config)
			got := n.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeStopwords(t *testing.T) {
	config := DefaultNormalizationConfig()
	config.RemoveStopwords = true
	n := NewNormalizer(config)

	got := n.Normalize("the the the telescope")
	if !strings.Contains(got, "telescope") {
		t.Errorf("expected content word to survive, got %q", got)
	}
	if strings.Contains(got, "the") {
		t.Errorf("expected stop words removed, got %q", got)
	}
}

func TestNormalizeStemming(t *testing.T) {
	config := NormalizationConfig{Lowercase: true, Stem: true}
	n := NewNormalizer(config)

	got := n.Normalize("running quickly")
	if got != "run quick" {
		t.Errorf("Normalize = %q, want %q", got, "run quick")
	}
}

func TestNormalizeLemmatization(t *testing.T) {
	config := NormalizationConfig{Lowercase: true, Lemmatize: true}
	n := NewNormalizer(config)

	got := n.Normalize("went children")
	if got != "go child" {
		t.Errorf("Normalize = %q, want %q", got, "go child")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// The stem stage is excluded here: Porter2 stemming has no fixed
	// point for some words, see TestNormalizeStemmingNotIdempotent.
	configs := map[string]NormalizationConfig{
		"default":          DefaultNormalizationConfig(),
		"all but stemming": {StripHTML: true, StripURLs: true, StripEmails: true, StripPunctuation: true, Lowercase: true, RemoveStopwords: true, Lemmatize: true},
	}
	inputs := []string{
		"I absolutely love this product!",
		"<p>Visit https://example.org or write to a@b.com</p>",
		"Running   FAST\tand\nloose",
		"",
	}

	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			n := NewNormalizer(config)
			for _, input := range inputs {
				once := n.Normalize(input)
				twice := n.Normalize(once)
				if once != twice {
					t.Errorf("not idempotent for %q: first %q, second %q", input, once, twice)
				}
			}
		})
	}
}

func TestNormalizeStemmingNotIdempotent(t *testing.T) {
	// Porter2 re-stems its own output for some words ("loose" stems
	// to "loos", which stems again to "loo"), so a pipeline with the
	// stem stage enabled is not a fixed point. Pin that down so the
	// stage's exclusion from the idempotence guarantee stays honest.
	config := NormalizationConfig{Lowercase: true, RemoveStopwords: true, Stem: true}
	n := NewNormalizer(config)

	once := n.Normalize("Running   FAST\tand\nloose")
	if once != "run fast loos" {
		t.Fatalf("first pass = %q, want %q", once, "run fast loos")
	}
	twice := n.Normalize(once)
	if twice != "run fast loo" {
		t.Errorf("second pass = %q, want %q", twice, "run fast loo")
	}
}

func TestNormalizeForSentiment(t *testing.T) {
	n := NewNormalizer(DefaultNormalizationConfig())

	got := n.NormalizeForSentiment("<p>I LOVE it! :)</p> http://spam.example")
	want := "I LOVE it! :)"
	if got != want {
		t.Errorf("NormalizeForSentiment = %q, want %q", got, want)
	}

	if n.NormalizeForSentiment("") != "" {
		t.Error("expected empty output for empty input")
	}
}

func TestTokenStagesDegradeSilently(t *testing.T) {
	// Lemmatization and stemming probes both pass in-process, so this
	// exercises the stage-skip path through a config where no token
	// stage is enabled at all.
	n := NewNormalizer(NormalizationConfig{Lowercase: true})
	if n.tokenStagesActive() {
		t.Error("no token stage should be active")
	}
	if got := n.Normalize("The Children Went Home"); got != "the children went home" {
		t.Errorf("Normalize = %q", got)
	}
}
