package risk

import (
	"fmt"
	"time"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/pkg/keyword"
)

// Scorer computes additive risk scores from structured patient attributes.
type Scorer struct {
	Now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{Now: time.Now}
}

// Assess scores p. Missing fields contribute nothing. Factors are kept in
// the order they were found (age, diseases, medication count, symptoms) and
// truncated to the first five regardless of weight.
func (s *Scorer) Assess(p patient.Attributes) *Assessment {
	score := 0
	var factors []string

	if p.HasAge() {
		age := *p.Age
		switch {
		case age >= advancedAgeYears:
			score += advancedAgeWeight
			factors = append(factors, fmt.Sprintf("Advanced age (%d years)", age))
		case age >= olderAgeYears:
			score += olderAgeWeight
			factors = append(factors, fmt.Sprintf("Age over 65 (%d years)", age))
		}
	}

	for _, d := range p.Diseases {
		if w, ok := firstWeight(d, severityTable); ok {
			score += w
			factors = append(factors, "Condition: "+d)
		}
	}

	if n := len(p.Medications); n >= polypharmacyCount {
		score += polypharmacyWeight
		factors = append(factors, fmt.Sprintf("Polypharmacy (%d medications)", n))
	}

	for _, sym := range p.Symptoms {
		if w, ok := firstWeight(sym, symptomTable); ok {
			score += w
			factors = append(factors, "Symptom: "+sym)
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	if factors == nil {
		factors = []string{}
	}

	now := time.Now
	if s != nil && s.Now != nil {
		now = s.Now
	}

	return &Assessment{
		Score:        score,
		Level:        LevelFor(score),
		Confidence:   Confidence(p),
		Factors:      factors,
		ModelVersion: ModelVersion,
		Timestamp:    now().UTC(),
	}
}

func firstWeight(text string, table []Weight) (int, bool) {
	for _, w := range table {
		if keyword.Contains(text, w.Key) {
			return w.Weight, true
		}
	}
	return 0, false
}

// LevelFor maps a score onto its risk level. Boundaries are inclusive on the
// upper band.
func LevelFor(score int) string {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Confidence grows with the number of supplied data points, within [60, 95].
func Confidence(p patient.Attributes) int {
	c := baseConfidence + confidencePerPoint*p.DataPoints()
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}
