package insights

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clara/clara/pkg/keyword"
)

// Engine builds guideline-driven care insights for a patient.
type Engine struct {
	Now     func() time.Time
	Quality QualityEstimator
}

// NewEngine returns an engine using q for quality metrics. A nil q falls
// back to StaticEstimator.
func NewEngine(q QualityEstimator) *Engine {
	if q == nil {
		q = StaticEstimator{}
	}
	return &Engine{Now: time.Now, Quality: q}
}

func (e *Engine) Generate(in Input) *Insights {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	q := e.Quality
	if q == nil {
		q = StaticEstimator{}
	}

	return &Insights{
		PatientSummary:  Summarize(in),
		RiskFactors:     RiskFactors(in),
		Recommendations: Recommendations(in.Diseases),
		MonitoringPlan:  Plan(in.Diseases),
		Alerts:          Reminders(in),
		QualityMetrics:  q.Estimate(in),
		GeneratedAt:     now().UTC(),
	}
}

// Complexity bands a patient by condition and medication counts.
func Complexity(diseases, medications int) string {
	switch {
	case diseases >= complexConditions || medications >= polypharmacyCount:
		return ComplexityHigh
	case diseases >= moderateConditions || medications >= moderateMedications:
		return ComplexityModerate
	default:
		return ComplexityLow
	}
}

func Summarize(in Input) PatientSummary {
	primary := []string{"None reported"}
	if len(in.Diseases) > 0 {
		n := len(in.Diseases)
		if n > primaryConditionMax {
			n = primaryConditionMax
		}
		primary = append([]string(nil), in.Diseases[:n]...)
	}
	return PatientSummary{
		Age:               in.AgeOrZero(),
		ConditionCount:    len(in.Diseases),
		MedicationCount:   len(in.Medications),
		ComplexityLevel:   Complexity(len(in.Diseases), len(in.Medications)),
		PrimaryConditions: primary,
	}
}

// RiskFactors lists age, comorbidity and polypharmacy factors in that order.
func RiskFactors(in Input) []RiskFactor {
	factors := make([]RiskFactor, 0)

	if in.HasAge() && *in.Age >= advancedAge {
		factors = append(factors, RiskFactor{
			Factor:      "Advanced Age",
			Category:    "Demographics",
			Impact:      "High",
			Description: fmt.Sprintf("Patient age (%d) increases risk for complications", *in.Age),
		})
	}

	for _, rule := range comorbidityRules {
		if !ruleApplies(rule, in.Diseases) {
			continue
		}
		impact := "Moderate"
		if rule.Multiplier >= highImpactFactor {
			impact = "High"
		}
		m := rule.Multiplier
		factors = append(factors, RiskFactor{
			Factor:         "Comorbidity: " + strings.Join(rule.Keys, " + "),
			Category:       "Clinical",
			Impact:         impact,
			RiskMultiplier: &m,
			Description:    "Combined conditions increase overall risk by " + strconv.FormatFloat(m, 'f', 1, 64) + "x",
		})
	}

	if n := len(in.Medications); n >= polypharmacyCount {
		factors = append(factors, RiskFactor{
			Factor:      "Polypharmacy",
			Category:    "Medication",
			Impact:      "Moderate",
			Description: fmt.Sprintf("%d medications increases interaction risk", n),
		})
	}
	return factors
}

func ruleApplies(rule ComorbidityRule, diseases []string) bool {
	for _, k := range rule.Keys {
		if !keyword.ContainsAny(diseases, k) {
			return false
		}
	}
	return true
}

// Recommendations emits one guideline bundle per disease that matches the
// table (first match wins), or the general-health bundle when none do.
func Recommendations(diseases []string) []Recommendation {
	var recs []Recommendation
	for _, d := range diseases {
		for _, g := range guidelines {
			if !keyword.Contains(d, g.Key) {
				continue
			}
			c := cloneGuideline(g)
			recs = append(recs, Recommendation{
				Condition:     keyword.Label(g.Key),
				Monitoring:    c.Monitoring,
				Targets:       c.Targets,
				Lifestyle:     c.Lifestyle,
				EvidenceLevel: evidenceStrong,
			})
			break
		}
	}
	if len(recs) == 0 {
		g := generalGuideline
		g.Monitoring = append([]string(nil), g.Monitoring...)
		g.Targets = cloneTargets(g.Targets)
		g.Lifestyle = append([]string(nil), g.Lifestyle...)
		recs = append(recs, g)
	}
	return recs
}

// Plan builds the monitoring schedule. Tests are deduplicated keeping their
// first occurrence.
func Plan(diseases []string) MonitoringPlan {
	plan := MonitoringPlan{
		Frequency:  "Quarterly",
		Tests:      make([]string, 0),
		VitalSigns: append([]string(nil), vitalSigns...),
		FollowUp:   "12 weeks",
	}
	if len(diseases) >= moderateConditions {
		plan.Frequency = "Monthly"
		plan.FollowUp = "4 weeks"
	}

	seen := make(map[string]bool)
	for _, rule := range monitoringTests {
		matched := false
		for _, trigger := range rule.triggers {
			if keyword.ContainsAny(diseases, trigger) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, test := range rule.tests {
			if !seen[test] {
				seen[test] = true
				plan.Tests = append(plan.Tests, test)
			}
		}
	}
	return plan
}

// Reminders returns screening, vaccination and care-coordination prompts.
func Reminders(in Input) []Reminder {
	reminders := make([]Reminder, 0)
	if in.HasAge() && *in.Age >= screeningAge {
		reminders = append(reminders, Reminder{
			Type:     "Screening",
			Priority: "Medium",
			Message:  "Consider colorectal cancer screening",
			Due:      "If not done in past 10 years",
		})
	}
	if in.HasAge() && *in.Age >= advancedAge {
		reminders = append(reminders, Reminder{
			Type:     "Vaccination",
			Priority: "Medium",
			Message:  "Annual influenza and pneumococcal vaccination due",
			Due:      "Annually",
		})
	}
	if len(in.Diseases) >= complexConditions {
		reminders = append(reminders, Reminder{
			Type:     "Care Coordination",
			Priority: "High",
			Message:  "Complex patient - consider care coordinator referral",
			Due:      "Within 2 weeks",
		})
	}
	return reminders
}
