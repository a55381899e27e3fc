package insights

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/clara/clara/internal/domain/patient"
)

// Input is the patient data the engine works from. RiskScore, when present,
// is echoed into the quality metrics.
type Input struct {
	patient.Attributes
	RiskScore *int `json:"risk_score,omitempty"`
}

// Complexity bands.
const (
	ComplexityLow      = "Low"
	ComplexityModerate = "Moderate"
	ComplexityHigh     = "High"
)

type PatientSummary struct {
	Age               int      `json:"age"`
	ConditionCount    int      `json:"condition_count"`
	MedicationCount   int      `json:"medication_count"`
	ComplexityLevel   string   `json:"complexity_level"`
	PrimaryConditions []string `json:"primary_conditions"`
}

type RiskFactor struct {
	Factor         string   `json:"factor"`
	Category       string   `json:"category"`
	Impact         string   `json:"impact"`
	RiskMultiplier *float64 `json:"risk_multiplier,omitempty"`
	Description    string   `json:"description"`
}

// Target is a named clinical goal such as "HbA1c" -> "<7%".
type Target struct {
	Name  string
	Value string
}

// Targets is an ordered set of goals. It encodes as a JSON object whose keys
// keep their declared order.
type Targets []Target

func (t Targets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, target := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(target.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(target.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Value returns the goal registered under name.
func (t Targets) Value(name string) (string, bool) {
	for _, target := range t {
		if target.Name == name {
			return target.Value, true
		}
	}
	return "", false
}

type Recommendation struct {
	Condition     string   `json:"condition"`
	Monitoring    []string `json:"monitoring"`
	Targets       Targets  `json:"targets"`
	Lifestyle     []string `json:"lifestyle"`
	EvidenceLevel string   `json:"evidence_level"`
}

type MonitoringPlan struct {
	Frequency  string   `json:"frequency"`
	Tests      []string `json:"tests"`
	VitalSigns []string `json:"vital_signs"`
	FollowUp   string   `json:"follow_up"`
}

// Reminder is a time-sensitive care prompt (screening, vaccination,
// coordination).
type Reminder struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Due      string `json:"due"`
}

type Benchmark struct {
	VsNational string `json:"vs_national"`
	VsRegional string `json:"vs_regional"`
}

// QualityMetrics are estimates, not computed telemetry; see QualityEstimator.
type QualityMetrics struct {
	CareGapScore              int       `json:"care_gap_score"`
	AdherenceEstimate         int       `json:"adherence_estimate"`
	RiskStratification        int       `json:"risk_stratification"`
	DocumentationCompleteness int       `json:"documentation_completeness"`
	BenchmarkComparison       Benchmark `json:"benchmark_comparison"`
}

type Insights struct {
	PatientSummary  PatientSummary   `json:"patient_summary"`
	RiskFactors     []RiskFactor     `json:"risk_factors"`
	Recommendations []Recommendation `json:"recommendations"`
	MonitoringPlan  MonitoringPlan   `json:"monitoring_plan"`
	Alerts          []Reminder       `json:"alerts"`
	QualityMetrics  QualityMetrics   `json:"quality_metrics"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
