package feelnet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Lexicon manages the sentiment word lists shared by the lexicon and
// polarity strategies.
type Lexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	emoticons map[string]float64
	mutex     sync.RWMutex
}

// LexiconEntry represents a word's sentiment information.
type LexiconEntry struct {
	Word       string
	Valence    float64 // -1 to 1
	Confidence float64 // 0 to 1
}

// ExternalLexicon is the JSON structure for external lexicon files.
// Entries merge over (and may override) the built-in word lists.
type ExternalLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format.
type WordEntry struct {
	Word       string  `json:"word"`
	Valence    float64 `json:"valence"`
	Confidence float64 `json:"confidence"`
}

// ModifierEntry represents a modifier word in JSON format.
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// NewLexicon returns the built-in English lexicon.
func NewLexicon() *Lexicon {
	lex := &Lexicon{}
	lex.loadBaseWords()
	lex.loadModifiers()
	lex.loadNegations()
	lex.loadEmoticons()
	return lex
}

// NewLexiconWithExternal returns the built-in lexicon with an external
// JSON lexicon merged on top. An empty path is the plain built-in lexicon.
func NewLexiconWithExternal(path string) (*Lexicon, error) {
	lex := NewLexicon()
	if path != "" {
		if err := lex.MergeExternal(path); err != nil {
			return nil, fmt.Errorf("failed to load external lexicon: %w", err)
		}
	}
	return lex, nil
}

// MergeExternal loads and merges an external lexicon file.
func (lex *Lexicon) MergeExternal(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	lex.mutex.Lock()
	defer lex.mutex.Unlock()

	for _, entry := range external.Words {
		lex.words[strings.ToLower(entry.Word)] = LexiconEntry{
			Word:       entry.Word,
			Valence:    entry.Valence,
			Confidence: entry.Confidence,
		}
	}
	for _, m := range external.Modifiers {
		lex.modifiers[strings.ToLower(m.Word)] = m.Factor
	}
	for _, w := range external.Intensifiers {
		lex.modifiers[strings.ToLower(w)] = 0.5
	}
	for _, w := range external.Diminishers {
		lex.modifiers[strings.ToLower(w)] = -0.3
	}
	for _, w := range external.Negations {
		lex.negations[strings.ToLower(w)] = true
	}

	return nil
}

// Valence returns the sentiment score for a word, or 0 when unknown.
// Emoticons are looked up before words so ":(" never goes through
// case folding.
func (lex *Lexicon) Valence(word string) float64 {
	lex.mutex.RLock()
	defer lex.mutex.RUnlock()

	if v, ok := lex.emoticons[word]; ok {
		return v
	}
	if entry, ok := lex.words[word]; ok {
		return entry.Valence
	}
	if entry, ok := lex.words[strings.ToLower(word)]; ok {
		return entry.Valence
	}
	return 0.0
}

// Confidence returns the lexicon's confidence for a word's valence.
func (lex *Lexicon) Confidence(word string) float64 {
	lex.mutex.RLock()
	defer lex.mutex.RUnlock()

	if _, ok := lex.emoticons[word]; ok {
		return 0.9
	}
	if entry, ok := lex.words[word]; ok {
		return entry.Confidence
	}
	if entry, ok := lex.words[strings.ToLower(word)]; ok {
		return entry.Confidence
	}
	return 0.0
}

// IsNegation reports whether word flips the polarity of what follows.
func (lex *Lexicon) IsNegation(word string) bool {
	lex.mutex.RLock()
	defer lex.mutex.RUnlock()
	return lex.negations[word] || lex.negations[strings.ToLower(word)]
}

// ModifierStrength returns the intensifier (positive) or diminisher
// (negative) factor for a word, or 0 when the word is not a modifier.
func (lex *Lexicon) ModifierStrength(word string) float64 {
	lex.mutex.RLock()
	defer lex.mutex.RUnlock()

	if f, ok := lex.modifiers[word]; ok {
		return f
	}
	if f, ok := lex.modifiers[strings.ToLower(word)]; ok {
		return f
	}
	return 0.0
}

// AddWord adds or overrides a domain-specific word.
func (lex *Lexicon) AddWord(word string, valence, confidence float64) {
	lex.mutex.Lock()
	defer lex.mutex.Unlock()
	lex.words[strings.ToLower(word)] = LexiconEntry{
		Word:       word,
		Valence:    valence,
		Confidence: confidence,
	}
}

// Size returns the number of words in the lexicon.
func (lex *Lexicon) Size() int {
	lex.mutex.RLock()
	defer lex.mutex.RUnlock()
	return len(lex.words)
}

func (lex *Lexicon) loadBaseWords() {
	lex.words = map[string]LexiconEntry{
		// Strong positive words
		"excellent":   {Word: "excellent", Valence: 0.9, Confidence: 0.95},
		"amazing":     {Word: "amazing", Valence: 0.85, Confidence: 0.95},
		"wonderful":   {Word: "wonderful", Valence: 0.85, Confidence: 0.95},
		"fantastic":   {Word: "fantastic", Valence: 0.85, Confidence: 0.95},
		"outstanding": {Word: "outstanding", Valence: 0.9, Confidence: 0.95},
		"perfect":     {Word: "perfect", Valence: 0.95, Confidence: 0.95},
		"brilliant":   {Word: "brilliant", Valence: 0.85, Confidence: 0.95},
		"superb":      {Word: "superb", Valence: 0.85, Confidence: 0.95},
		"magnificent": {Word: "magnificent", Valence: 0.9, Confidence: 0.95},
		"incredible":  {Word: "incredible", Valence: 0.85, Confidence: 0.9},

		// Moderate positive words
		"good":        {Word: "good", Valence: 0.6, Confidence: 0.9},
		"great":       {Word: "great", Valence: 0.75, Confidence: 0.9},
		"nice":        {Word: "nice", Valence: 0.5, Confidence: 0.85},
		"love":        {Word: "love", Valence: 0.8, Confidence: 0.9},
		"happy":       {Word: "happy", Valence: 0.7, Confidence: 0.9},
		"beautiful":   {Word: "beautiful", Valence: 0.75, Confidence: 0.9},
		"enjoy":       {Word: "enjoy", Valence: 0.65, Confidence: 0.9},
		"like":        {Word: "like", Valence: 0.5, Confidence: 0.85},
		"pleasant":    {Word: "pleasant", Valence: 0.6, Confidence: 0.9},
		"positive":    {Word: "positive", Valence: 0.6, Confidence: 0.9},
		"best":        {Word: "best", Valence: 0.85, Confidence: 0.95},
		"better":      {Word: "better", Valence: 0.5, Confidence: 0.85},
		"fun":         {Word: "fun", Valence: 0.65, Confidence: 0.9},
		"interesting": {Word: "interesting", Valence: 0.5, Confidence: 0.85},
		"awesome":     {Word: "awesome", Valence: 0.8, Confidence: 0.9},
		"recommend":   {Word: "recommend", Valence: 0.6, Confidence: 0.85},
		"satisfied":   {Word: "satisfied", Valence: 0.6, Confidence: 0.9},

		// Mild positive words
		"okay":         {Word: "okay", Valence: 0.2, Confidence: 0.7},
		"fine":         {Word: "fine", Valence: 0.3, Confidence: 0.75},
		"decent":       {Word: "decent", Valence: 0.4, Confidence: 0.8},
		"satisfactory": {Word: "satisfactory", Valence: 0.4, Confidence: 0.85},

		// Strong negative words
		"terrible":   {Word: "terrible", Valence: -0.9, Confidence: 0.95},
		"awful":      {Word: "awful", Valence: -0.85, Confidence: 0.95},
		"horrible":   {Word: "horrible", Valence: -0.85, Confidence: 0.95},
		"disgusting": {Word: "disgusting", Valence: -0.9, Confidence: 0.95},
		"appalling":  {Word: "appalling", Valence: -0.9, Confidence: 0.95},
		"dreadful":   {Word: "dreadful", Valence: -0.85, Confidence: 0.95},
		"atrocious":  {Word: "atrocious", Valence: -0.9, Confidence: 0.95},
		"abysmal":    {Word: "abysmal", Valence: -0.95, Confidence: 0.95},

		// Moderate negative words
		"bad":           {Word: "bad", Valence: -0.6, Confidence: 0.9},
		"hate":          {Word: "hate", Valence: -0.8, Confidence: 0.9},
		"sad":           {Word: "sad", Valence: -0.7, Confidence: 0.9},
		"ugly":          {Word: "ugly", Valence: -0.75, Confidence: 0.9},
		"disappointing": {Word: "disappointing", Valence: -0.7, Confidence: 0.9},
		"disappointed":  {Word: "disappointed", Valence: -0.7, Confidence: 0.9},
		"poor":          {Word: "poor", Valence: -0.65, Confidence: 0.9},
		"wrong":         {Word: "wrong", Valence: -0.6, Confidence: 0.85},
		"worst":         {Word: "worst", Valence: -0.85, Confidence: 0.95},
		"worse":         {Word: "worse", Valence: -0.5, Confidence: 0.85},
		"dislike":       {Word: "dislike", Valence: -0.5, Confidence: 0.85},
		"negative":      {Word: "negative", Valence: -0.6, Confidence: 0.9},
		"annoying":      {Word: "annoying", Valence: -0.65, Confidence: 0.9},
		"boring":        {Word: "boring", Valence: -0.6, Confidence: 0.85},
		"broken":        {Word: "broken", Valence: -0.7, Confidence: 0.9},
		"fail":          {Word: "fail", Valence: -0.7, Confidence: 0.9},
		"failure":       {Word: "failure", Valence: -0.75, Confidence: 0.9},
		"waste":         {Word: "waste", Valence: -0.65, Confidence: 0.85},
		"angry":         {Word: "angry", Valence: -0.7, Confidence: 0.9},

		// Context-dependent words, low confidence on purpose
		"cheap":  {Word: "cheap", Valence: -0.3, Confidence: 0.6},
		"simple": {Word: "simple", Valence: 0.1, Confidence: 0.5},
		"fast":   {Word: "fast", Valence: 0.3, Confidence: 0.6},
		"slow":   {Word: "slow", Valence: -0.3, Confidence: 0.6},
		"hard":   {Word: "hard", Valence: -0.2, Confidence: 0.5},
		"easy":   {Word: "easy", Valence: 0.3, Confidence: 0.6},
		"new":    {Word: "new", Valence: 0.2, Confidence: 0.5},
		"old":    {Word: "old", Valence: -0.2, Confidence: 0.5},
	}
}

func (lex *Lexicon) loadModifiers() {
	lex.modifiers = map[string]float64{
		// Intensifiers (increase by factor)
		"very":         0.3,
		"extremely":    0.5,
		"absolutely":   0.5,
		"totally":      0.4,
		"really":       0.3,
		"so":           0.3,
		"quite":        0.2,
		"incredibly":   0.5,
		"remarkably":   0.4,
		"particularly": 0.3,
		"especially":   0.3,
		"super":        0.4,
		"utterly":      0.5,
		"completely":   0.4,
		"thoroughly":   0.4,

		// Diminishers (decrease by factor)
		"slightly":   -0.3,
		"somewhat":   -0.3,
		"rather":     -0.2,
		"fairly":     -0.1,
		"marginally": -0.4,
		"barely":     -0.5,
		"hardly":     -0.5,
		"scarcely":   -0.5,
	}
}

func (lex *Lexicon) loadNegations() {
	lex.negations = map[string]bool{
		"not":       true,
		"no":        true,
		"never":     true,
		"neither":   true,
		"nor":       true,
		"cannot":    true,
		"can't":     true,
		"won't":     true,
		"don't":     true,
		"doesn't":   true,
		"didn't":    true,
		"isn't":     true,
		"aren't":    true,
		"wasn't":    true,
		"weren't":   true,
		"hasn't":    true,
		"haven't":   true,
		"hadn't":    true,
		"wouldn't":  true,
		"shouldn't": true,
		"couldn't":  true,
		"n't":       true,
		"without":   true,
		"nobody":    true,
		"nothing":   true,
		"nowhere":   true,
		"none":      true,
	}
}

func (lex *Lexicon) loadEmoticons() {
	lex.emoticons = map[string]float64{
		":)":   0.6,
		":))":  0.7,
		":)))": 0.75,
		":-)":  0.6,
		":-))": 0.7,
		":D":   0.75,
		"=)":   0.6,
		"=D":   0.75,
		"xD":   0.7,
		"<3":   0.75,
		":(":   -0.6,
		":((":  -0.7,
		":(((": -0.75,
		":-(":  -0.6,
		":`(":  -0.7,
		":`-(": -0.7,
		"=(":   -0.6,
		":-/":  -0.3,
		":-|":  -0.1,
	}
}
