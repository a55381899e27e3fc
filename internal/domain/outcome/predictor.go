package outcome

import (
	"strconv"
	"strings"
	"time"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/pkg/keyword"
	"github.com/clara/clara/pkg/numeric"
)

const (
	maxProbability     = 0.95
	polypharmacyCount  = 5
	multipleConditions = 3
	baseConfidence     = 60
	confidencePerField = 10
	maxConfidence      = 95
	agePrefix          = "age_over_"

	guardedPercent = 30.0
	fairPercent    = 15.0
)

type Predictor struct {
	Now func() time.Time
}

func NewPredictor() *Predictor {
	return &Predictor{Now: time.Now}
}

// Predict evaluates every outcome model against p.
func (pr *Predictor) Predict(p patient.Attributes) *Report {
	conf := Confidence(p)
	preds := make([]Prediction, 0, len(models))
	for _, m := range models {
		prob := Probability(m, p)
		preds = append(preds, Prediction{
			Outcome:        m.Name,
			Probability:    numeric.Round(prob*100, 1),
			RiskLevel:      CategorizeRisk(prob),
			Confidence:     conf,
			FactorsPresent: FactorsPresent(m, p),
		})
	}

	now := time.Now
	if pr != nil && pr.Now != nil {
		now = pr.Now
	}
	return &Report{
		Predictions:      preds,
		OverallPrognosis: OverallPrognosis(preds),
		PredictedAt:      now().UTC(),
	}
}

// factorMatches reports whether factor key applies to p.
func factorMatches(key string, p patient.Attributes) bool {
	if strings.HasPrefix(key, agePrefix) {
		threshold, err := strconv.Atoi(strings.TrimPrefix(key, agePrefix))
		return err == nil && p.HasAge() && *p.Age >= threshold
	}
	switch key {
	case "polypharmacy":
		return len(p.Medications) >= polypharmacyCount
	case "multiple_conditions":
		return len(p.Diseases) >= multipleConditions
	}
	return keyword.ContainsAny(p.Diseases, key)
}

// Probability is the model's base rate plus every matched factor weight,
// capped at 0.95.
func Probability(m Model, p patient.Attributes) float64 {
	prob := m.BaseRate
	for _, f := range m.Factors {
		if factorMatches(f.Key, p) {
			prob += f.Weight
		}
	}
	if prob > maxProbability {
		return maxProbability
	}
	return prob
}

// FactorsPresent lists the display names of every factor that contributed to
// the model's probability.
func FactorsPresent(m Model, p patient.Attributes) []string {
	present := make([]string, 0)
	for _, f := range m.Factors {
		if factorMatches(f.Key, p) {
			present = append(present, keyword.Label(f.Key))
		}
	}
	return present
}

func CategorizeRisk(prob float64) string {
	switch {
	case prob >= 0.30:
		return RiskHigh
	case prob >= 0.15:
		return RiskModerate
	case prob >= 0.05:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// Confidence rises by 10 for each populated field among age, diseases,
// medications and symptoms, within [60, 95].
func Confidence(p patient.Attributes) int {
	c := baseConfidence + confidencePerField*p.PresentFields()
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// OverallPrognosis bands the mean predicted percentage. The score is
// 100 minus that mean.
func OverallPrognosis(preds []Prediction) Prognosis {
	if len(preds) == 0 {
		return Prognosis{Status: "Stable", Score: 85}
	}
	sum := 0.0
	for _, p := range preds {
		sum += p.Probability
	}
	avg := sum / float64(len(preds))

	status := "Good"
	switch {
	case avg >= guardedPercent:
		status = "Guarded"
	case avg >= fairPercent:
		status = "Fair"
	}
	return Prognosis{Status: status, Score: 100 - avg}
}
