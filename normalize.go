package feelnet

import (
	"regexp"
	"strings"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball/english"
)

// NormalizationConfig selects which cleanup stages run. Stage order is
// fixed regardless of which stages are enabled; later stages assume the
// earlier cleanup already happened.
type NormalizationConfig struct {
	StripHTML        bool
	StripURLs        bool
	StripEmails      bool
	StripPunctuation bool
	Lowercase        bool
	RemoveStopwords  bool
	Lemmatize        bool
	Stem             bool
}

// DefaultNormalizationConfig returns the standard cleanup configuration.
func DefaultNormalizationConfig() NormalizationConfig {
	return NormalizationConfig{
		StripHTML:   true,
		StripURLs:   true,
		StripEmails: true,
		Lowercase:   true,
	}
}

// Normalizer is a deterministic text-to-text pipeline. It is pure: no
// I/O and no external state after construction.
type Normalizer struct {
	config NormalizationConfig

	// Capability probes resolved at construction so normalization
	// behavior is predictable independent of environment.
	canStopwords bool
	canLemmatize bool
	canStem      bool
}

var (
	htmlTagRE    = regexp.MustCompile(`<[^>]+>`)
	urlRE        = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	emailRE      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	punctRE      = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?;:\-'"()]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// NewNormalizer builds a normalizer for the given configuration.
// Tokenization-dependent stages degrade silently to stage-skipping when
// the underlying resources are unavailable.
func NewNormalizer(config NormalizationConfig) *Normalizer {
	n := &Normalizer{config: config}
	if config.RemoveStopwords {
		// The stopwords library collapses known stop words to nothing.
		n.canStopwords = strings.TrimSpace(stopwords.CleanString("the", "en", false)) == ""
	}
	if config.Lemmatize {
		n.canLemmatize = len(lemmaExceptions) > 0
	}
	if config.Stem {
		n.canStem = english.Stem("running", false) != ""
	}
	return n
}

// Normalize applies the configured stages in their fixed order. Empty
// input yields an empty string, never an error. The output is a fixed
// point of the pipeline unless the stem stage is enabled: Porter2
// re-stems some of its own output ("loose" to "loos" to "loo").
func (n *Normalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	if n.config.StripHTML {
		text = htmlTagRE.ReplaceAllString(text, "")
	}
	if n.config.StripURLs {
		text = urlRE.ReplaceAllString(text, "")
	}
	if n.config.StripEmails {
		text = emailRE.ReplaceAllString(text, "")
	}
	if n.config.StripPunctuation {
		text = punctRE.ReplaceAllString(text, "")
	}
	if n.config.Lowercase {
		text = strings.ToLower(text)
	}
	if n.tokenStagesActive() {
		text = n.applyTokenStages(text)
	}

	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// NormalizeForSentiment is the reduced pipeline used ahead of
// classification. It strips markup, URLs and email addresses but
// preserves case, punctuation and emoticons because those carry
// polarity signal the full pipeline would destroy.
func (n *Normalizer) NormalizeForSentiment(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := htmlTagRE.ReplaceAllString(raw, "")
	text = urlRE.ReplaceAllString(text, "")
	text = emailRE.ReplaceAllString(text, "")

	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

func (n *Normalizer) tokenStagesActive() bool {
	return (n.config.RemoveStopwords && n.canStopwords) ||
		(n.config.Lemmatize && n.canLemmatize) ||
		(n.config.Stem && n.canStem)
}

func (n *Normalizer) applyTokenStages(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for _, word := range words {
		if n.config.RemoveStopwords && n.canStopwords {
			if strings.TrimSpace(stopwords.CleanString(strings.ToLower(word), "en", false)) == "" {
				continue
			}
		}
		if n.config.Lemmatize && n.canLemmatize {
			if lemma, ok := lemmaExceptions[strings.ToLower(word)]; ok {
				word = lemma
			}
		}
		if n.config.Stem && n.canStem {
			word = english.Stem(word, false)
		}
		out = append(out, word)
	}

	return strings.Join(out, " ")
}

// lemmaExceptions covers the common English irregular forms. Regular
// inflection is left to the stemmer when that stage is enabled.
var lemmaExceptions = map[string]string{
	"am":       "be",
	"are":      "be",
	"is":       "be",
	"was":      "be",
	"were":     "be",
	"been":     "be",
	"has":      "have",
	"had":      "have",
	"having":   "have",
	"does":     "do",
	"did":      "do",
	"done":     "do",
	"goes":     "go",
	"went":     "go",
	"gone":     "go",
	"said":     "say",
	"says":     "say",
	"made":     "make",
	"making":   "make",
	"took":     "take",
	"taken":    "take",
	"got":      "get",
	"gotten":   "get",
	"came":     "come",
	"coming":   "come",
	"saw":      "see",
	"seen":     "see",
	"knew":     "know",
	"known":    "know",
	"thought":  "think",
	"bought":   "buy",
	"brought":  "bring",
	"felt":     "feel",
	"found":    "find",
	"gave":     "give",
	"given":    "give",
	"told":     "tell",
	"left":     "leave",
	"kept":     "keep",
	"better":   "good",
	"best":     "good",
	"worse":    "bad",
	"worst":    "bad",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
}
