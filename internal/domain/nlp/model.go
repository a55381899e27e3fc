package nlp

import "time"

// Entities holds the normalized (title-cased, deduplicated) medical terms
// found in a transcript. Each list follows keyword-table order.
type Entities struct {
	Diseases    []string `json:"diseases"`
	Medications []string `json:"medications"`
	Tests       []string `json:"tests"`
	Symptoms    []string `json:"symptoms"`
}

// Count returns the total number of extracted entities.
func (e Entities) Count() int {
	return len(e.Diseases) + len(e.Medications) + len(e.Tests) + len(e.Symptoms)
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Urgency struct {
	Level string `json:"level"`
	Score int    `json:"score"`
}

type TextMetrics struct {
	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
	EntityCount   int `json:"entity_count"`
}

// Analysis is the full result of analyzing one transcript.
type Analysis struct {
	Entities          Entities    `json:"entities"`
	Metrics           TextMetrics `json:"metrics"`
	Sentiment         Sentiment   `json:"sentiment"`
	KeyPhrases        []string    `json:"key_phrases"`
	Urgency           Urgency     `json:"urgency"`
	ComplexityScore   float64     `json:"complexity_score"`
	AnalysisTimestamp time.Time   `json:"analysis_timestamp"`
}

// Sentiment labels.
const (
	SentimentConcerning = "Concerning"
	SentimentPositive   = "Positive"
	SentimentNeutral    = "Neutral"
)

// Urgency levels, most urgent first.
const (
	UrgencyEmergency = "Emergency"
	UrgencyHigh      = "High"
	UrgencyRoutine   = "Routine"
)
