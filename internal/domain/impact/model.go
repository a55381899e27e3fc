package impact

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidWindow is returned when a period window is empty or reversed.
var ErrInvalidWindow = errors.New("period window must have from before to")

const unknownLevel = "Unknown"

// Record is one stored risk assessment.
type Record struct {
	ID          uuid.UUID `json:"id"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   string    `json:"risk_level"`
	Diseases    []string  `json:"diseases"`
	Medications []string  `json:"medications"`
	CreatedAt   time.Time `json:"created_at"`
}

// Frequency counts occurrences of a disease or medication name.
type Frequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot summarizes a set of analyses. When supplied by a caller for
// comparison only the period and the compared metric fields matter.
type Snapshot struct {
	Period           string         `json:"period,omitempty"`
	TotalAnalyses    int            `json:"total_analyses"`
	RiskDistribution map[string]int `json:"risk_distribution"`
	AverageRiskScore float64        `json:"average_risk_score"`
	TopDiseases      []Frequency    `json:"top_diseases"`
	TopMedications   []Frequency    `json:"top_medications"`
	HighRiskRate     float64        `json:"high_risk_rate"`
	CriticalRate     float64        `json:"critical_rate"`
	CareGapScore     float64        `json:"care_gap_score,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Direction says which way a metric has to move to count as an improvement.
type Direction string

const (
	LowerBetter  Direction = "lower_better"
	HigherBetter Direction = "higher_better"
)

// Metric is one entry of the comparison list.
type Metric struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Direction Direction `json:"direction"`
}

var comparedMetrics = []Metric{
	{"average_risk_score", "Average Risk Score", LowerBetter},
	{"high_risk_rate", "High Risk Rate", LowerBetter},
	{"total_analyses", "Total Analyses", HigherBetter},
	{"care_gap_score", "Care Gap Score", HigherBetter},
}

// ComparedMetrics returns a copy of the metrics Compare evaluates, in order.
func ComparedMetrics() []Metric {
	out := make([]Metric, len(comparedMetrics))
	copy(out, comparedMetrics)
	return out
}

func (s Snapshot) value(key string) float64 {
	switch key {
	case "average_risk_score":
		return s.AverageRiskScore
	case "high_risk_rate":
		return s.HighRiskRate
	case "total_analyses":
		return float64(s.TotalAnalyses)
	case "care_gap_score":
		return s.CareGapScore
	}
	return 0
}

// MetricChange is the before/after diff of one metric.
type MetricChange struct {
	Key           string  `json:"-"`
	Label         string  `json:"label"`
	Before        float64 `json:"before"`
	After         float64 `json:"after"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsImprovement bool    `json:"is_improvement"`
}

// MetricChanges encodes as an object keyed by metric, in comparison order.
type MetricChanges []MetricChange

func (m MetricChanges) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mc := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(mc.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(mc)
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

// Get returns the change recorded for key.
func (m MetricChanges) Get(key string) (MetricChange, bool) {
	for _, mc := range m {
		if mc.Key == key {
			return mc, true
		}
	}
	return MetricChange{}, false
}

type PeriodComparison struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Summary struct {
	Status            string  `json:"status"`
	Score             float64 `json:"score"`
	ImprovementsCount int     `json:"improvements_count"`
	FocusAreasCount   int     `json:"focus_areas_count"`
	Recommendation    string  `json:"recommendation"`
}

// Report is the result of comparing two snapshots.
type Report struct {
	PeriodComparison   PeriodComparison `json:"period_comparison"`
	Metrics            MetricChanges    `json:"metrics"`
	Improvements       []string         `json:"improvements"`
	AreasForFocus      []string         `json:"areas_for_focus"`
	OverallImpactScore float64          `json:"overall_impact_score"`
	Summary            Summary          `json:"summary"`
	CalculatedAt       time.Time        `json:"calculated_at"`
}

// ScoreDelta is the weighted period score used by the compare-periods
// endpoint. The risk fields are absent when the earlier period had no risk.
type ScoreDelta struct {
	RiskChange         *float64  `json:"risk_change,omitempty"`
	RiskChangePercent  *float64  `json:"risk_change_percent,omitempty"`
	VolumeChange       int       `json:"volume_change"`
	HighRiskRateChange float64   `json:"high_risk_rate_change"`
	OverallImpactScore float64   `json:"overall_impact_score"`
	Timestamp          time.Time `json:"timestamp"`
}

// Window selects stored assessments created in [From, To).
type Window struct {
	Period string    `json:"period"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

func (w Window) validate() error {
	if w.From.IsZero() || w.To.IsZero() || !w.From.Before(w.To) {
		return ErrInvalidWindow
	}
	return nil
}
