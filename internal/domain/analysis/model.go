package analysis

import (
	"time"

	"github.com/clara/clara/internal/domain/alerting"
	"github.com/clara/clara/internal/domain/insights"
	"github.com/clara/clara/internal/domain/nlp"
	"github.com/clara/clara/internal/domain/outcome"
	"github.com/clara/clara/internal/domain/risk"
)

// Rule-set versions reported with every comprehensive analysis.
const (
	NLPVersion      = "2.0.0"
	InsightsVersion = "2.0.0"
	OutcomesVersion = "2.0.0"
)

// MaxBatchSize bounds the number of transcripts in one batch request.
const MaxBatchSize = 100

// PatientContext is the caller-supplied patient header. Conditions and
// medications come from the transcript.
type PatientContext struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Age  *int   `json:"age,omitempty"`
}

type Request struct {
	Transcript string         `json:"transcript"`
	Patient    PatientContext `json:"patient"`
}

type ModelVersions struct {
	NLP       string `json:"nlp"`
	RiskModel string `json:"risk_model"`
	Insights  string `json:"insights"`
	Outcomes  string `json:"outcomes"`
}

// Result combines every engine's output for one transcript.
type Result struct {
	Patient            PatientContext     `json:"patient"`
	NLPAnalysis        *nlp.Analysis      `json:"nlp_analysis"`
	RiskPrediction     *risk.Assessment   `json:"risk_prediction"`
	Alerts             []alerting.Alert   `json:"alerts"`
	ClinicalInsights   *insights.Insights `json:"clinical_insights"`
	OutcomePredictions *outcome.Report    `json:"outcome_predictions"`
	AnalysisTimestamp  time.Time          `json:"analysis_timestamp"`
	ModelVersions      ModelVersions      `json:"model_versions"`
}

type BatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BatchEntry is the outcome for one item. Error is set instead of NLP and
// Risk when the item could not be analyzed.
type BatchEntry struct {
	ID    string           `json:"id"`
	NLP   *nlp.Analysis    `json:"nlp,omitempty"`
	Risk  *risk.Assessment `json:"risk,omitempty"`
	Error string           `json:"error,omitempty"`
}

type BatchResult struct {
	Results   []BatchEntry `json:"results"`
	Processed int          `json:"processed"`
}
