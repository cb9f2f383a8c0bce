package feelnet

import (
	"math"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Default weighting constants for the lexicon walk. The compound score
// normalization constant matches the conventional valence normalizer for
// short social-media style text.
const (
	negationWindow   = 3
	negationDampen   = 0.5
	capsEmphasis     = 1.25
	exclaimEmphasis  = 0.292
	maxExclaim       = 4
	compoundAlpha    = 15.0
	neutralTokenMass = 0.25
)

// LexiconClassifier scores text by walking the sentiment lexicon:
// per-word valence adjusted for intensifiers, diminishers, negation
// windows and shouting, summed into a compound polarity score.
type LexiconClassifier struct {
	lexicon   *Lexicon
	tokenizer *tokenizer
	segmenter *sentences.DefaultSentenceTokenizer
}

// NewLexiconClassifier builds the lexicon strategy. Sentence
// segmentation is optional: when the segmenter cannot be constructed the
// classifier degrades to scoring the whole text as one sentence.
func NewLexiconClassifier(lexicon *Lexicon) *LexiconClassifier {
	seg, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		seg = nil
	}
	return &LexiconClassifier{
		lexicon:   lexicon,
		tokenizer: newTokenizer(),
		segmenter: seg,
	}
}

// Name implements Classifier.
func (lc *LexiconClassifier) Name() string { return "lexicon" }

// Classify implements Classifier.
func (lc *LexiconClassifier) Classify(text string) (Outcome, error) {
	var (
		posSum     float64
		negSum     float64
		neuMass    float64
		valenceSum float64
	)

	for _, sent := range lc.sentences(text) {
		valenceSum += lc.scoreSentence(sent, &posSum, &negSum, &neuMass)
	}

	compound := valenceSum / math.Sqrt(valenceSum*valenceSum+compoundAlpha)

	scores := ScoreDistribution{Positive: posSum, Negative: negSum, Neutral: neuMass}
	scores = scores.normalized()

	label := labelForCompound(compound)
	return Outcome{
		Label:      label,
		Confidence: scores[label],
		Scores:     scores,
	}, nil
}

// sentences splits text for per-sentence emphasis handling, falling back
// to the whole text when segmentation is unavailable.
func (lc *LexiconClassifier) sentences(text string) []string {
	if lc.segmenter == nil {
		return []string{text}
	}
	segs := lc.segmenter.Tokenize(text)
	if len(segs) == 0 {
		return []string{text}
	}
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.Text)
	}
	return out
}

// scoreSentence walks one sentence's tokens and returns its signed
// valence sum. Positive, negative and neutral mass accumulate into the
// caller's counters.
func (lc *LexiconClassifier) scoreSentence(sent string, posSum, negSum, neuMass *float64) float64 {
	tokens := lc.tokenizer.Tokenize(sent)
	if len(tokens) == 0 {
		return 0
	}

	mixedCase := sent != strings.ToUpper(sent)

	var sum float64
	exclaims := 0

	for i, token := range tokens {
		if token == "!" {
			exclaims++
			continue
		}

		valence := lc.lexicon.Valence(token)
		if valence == 0 {
			if isContentWord(token) &&
				lc.lexicon.ModifierStrength(token) == 0 &&
				!lc.lexicon.IsNegation(token) {
				*neuMass += neutralTokenMass
			}
			continue
		}

		valence = lc.applyModifiers(valence, tokens, i)

		if lc.negatedAt(tokens, i) {
			// Negation reverses but weakens.
			valence = -valence * negationDampen
		}

		if mixedCase && isShouting(token) {
			valence *= capsEmphasis
		}

		if valence > 0 {
			*posSum += valence
		} else {
			*negSum += math.Abs(valence)
		}
		sum += valence
	}

	// Trailing exclamation marks amplify whatever polarity the
	// sentence already has.
	if exclaims > 0 && sum != 0 {
		emphasis := float64(minInt(exclaims, maxExclaim)) * exclaimEmphasis
		if sum > 0 {
			sum += emphasis
			*posSum += emphasis
		} else {
			sum -= emphasis
			*negSum += emphasis
		}
	}

	return sum
}

// applyModifiers adjusts valence based on up to two preceding
// intensifiers or diminishers.
func (lc *LexiconClassifier) applyModifiers(valence float64, tokens []string, position int) float64 {
	start := maxInt(0, position-2)
	for i := start; i < position; i++ {
		modifier := lc.lexicon.ModifierStrength(tokens[i])
		if modifier != 0 {
			return valence * (1 + modifier)
		}
	}
	return valence
}

// negatedAt detects a negation in the preceding window, unless a clause
// boundary sits between the negation and the target word.
func (lc *LexiconClassifier) negatedAt(tokens []string, position int) bool {
	start := maxInt(0, position-negationWindow)
	for i := start; i < position; i++ {
		lower := strings.ToLower(tokens[i])
		if lc.lexicon.IsNegation(tokens[i]) || strings.Contains(lower, "n't") {
			for j := i + 1; j < position; j++ {
				if isClauseBoundary(tokens[j]) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// isContentWord checks if a token is a meaningful word rather than
// punctuation or a single character.
func isContentWord(token string) bool {
	if len(token) <= 1 {
		return false
	}
	for _, r := range token {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// isShouting reports whether a token is written in all caps.
func isShouting(token string) bool {
	return len(token) > 2 &&
		token == strings.ToUpper(token) &&
		token != strings.ToLower(token)
}

func isClauseBoundary(token string) bool {
	switch strings.ToLower(token) {
	case ",", ";", ":", ".", "!", "?", "but", "however", "although":
		return true
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
