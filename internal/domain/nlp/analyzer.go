package nlp

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/clara/clara/pkg/keyword"
	"github.com/clara/clara/pkg/numeric"
)

// Analyzer performs keyword-based analysis of clinical transcripts. It holds
// no mutable state and is safe for concurrent use.
type Analyzer struct {
	Now func() time.Time
}

// NewAnalyzer returns an Analyzer stamped with the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Now: time.Now}
}

// Analyze runs entity extraction, sentiment, urgency, key-phrase and
// complexity scoring over transcript. Identical input yields identical output
// apart from AnalysisTimestamp.
func (a *Analyzer) Analyze(transcript string) *Analysis {
	text := strings.ToLower(transcript)
	entities := ExtractEntities(text)

	now := time.Now
	if a != nil && a.Now != nil {
		now = a.Now
	}

	return &Analysis{
		Entities: entities,
		Metrics: TextMetrics{
			WordCount:     len(strings.Fields(text)),
			SentenceCount: strings.Count(transcript, ".") + strings.Count(transcript, "?"),
			EntityCount:   entities.Count(),
		},
		Sentiment:         AnalyzeSentiment(text),
		KeyPhrases:        KeyPhrases(transcript),
		Urgency:           DetectUrgency(text),
		ComplexityScore:   Complexity(len(entities.Diseases), len(entities.Medications), len(entities.Symptoms)),
		AnalysisTimestamp: now().UTC(),
	}
}

// ExtractEntities tags text against the four keyword tables. Text is only
// lower-cased, so "chest_pain" does not match "chest pain". There is no
// negation handling: "no chest pain" still yields "Chest Pain".
func ExtractEntities(text string) Entities {
	text = strings.ToLower(text)
	return Entities{
		Diseases:    extract(text, diseaseKeywords),
		Medications: extract(text, medicationKeywords),
		Tests:       extract(text, testKeywords),
		Symptoms:    extract(text, symptomKeywords),
	}
}

func extract(text string, keys []string) []string {
	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, k := range keys {
		if !strings.Contains(text, k) {
			continue
		}
		label := keyword.Title(k)
		if seen[label] {
			continue
		}
		seen[label] = true
		found = append(found, label)
	}
	return found
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// AnalyzeSentiment compares how many positive and negative cue words occur
// (presence, not frequency).
func AnalyzeSentiment(text string) Sentiment {
	text = strings.ToLower(text)
	pos := countPresent(text, positiveWords)
	neg := countPresent(text, negativeWords)

	switch {
	case neg > pos:
		return Sentiment{Label: SentimentConcerning, Score: -0.5 - float64(neg)*0.1}
	case pos > neg:
		return Sentiment{Label: SentimentPositive, Score: 0.5 + float64(pos)*0.1}
	default:
		return Sentiment{Label: SentimentNeutral, Score: 0.0}
	}
}

// DetectUrgency returns Emergency on any emergency cue, else High on any
// high-urgency cue, else Routine.
func DetectUrgency(text string) Urgency {
	text = strings.ToLower(text)
	for _, w := range emergencyWords {
		if strings.Contains(text, w) {
			return Urgency{Level: UrgencyEmergency, Score: 5}
		}
	}
	for _, w := range highUrgencyWords {
		if strings.Contains(text, w) {
			return Urgency{Level: UrgencyHigh, Score: 4}
		}
	}
	return Urgency{Level: UrgencyRoutine, Score: 2}
}

// KeyPhrases extracts, for each trigger in table order, the text from the
// trigger's first occurrence up to the next period (or at most 100
// characters when there is none). Phrases of 10 characters or fewer are
// dropped and at most five are returned.
func KeyPhrases(transcript string) []string {
	original := []rune(transcript)
	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	phrases := make([]string, 0, maxKeyPhrases)
	for _, trigger := range keyPhraseTriggers {
		idx := indexRunes(lowered, []rune(trigger), 0)
		if idx < 0 {
			continue
		}
		end := indexRunes(lowered, []rune{'.'}, idx)
		if end < 0 {
			end = idx + maxKeyPhraseLen
			if end > len(original) {
				end = len(original)
			}
		}
		phrase := []rune(strings.TrimSpace(string(original[idx:end])))
		if len(phrase) <= minKeyPhraseLen {
			continue
		}
		if len(phrase) > maxKeyPhraseLen {
			phrase = phrase[:maxKeyPhraseLen]
		}
		phrases = append(phrases, string(phrase))
	}

	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}

// indexRunes returns the index of the first occurrence of needle in haystack
// at or after from, or -1.
func indexRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return from
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Complexity scores case complexity on a 1-10 scale from entity counts.
func Complexity(diseases, medications, symptoms int) float64 {
	score := baseComplexity
	score += math.Min(float64(diseases)*diseaseWeight, diseaseCap)
	score += math.Min(float64(medications)*medicationWeight, medicationCap)
	score += math.Min(float64(symptoms)*symptomWeight, symptomCap)
	return math.Min(numeric.Round(score, 1), maxComplexity)
}
