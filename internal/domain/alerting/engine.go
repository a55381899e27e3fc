package alerting

import (
	"fmt"
	"sort"
	"strings"
)

// Engine turns a risk score and entity lists into a priority-ordered alert
// list. It is stateless.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Generate returns alerts sorted by ascending priority. Alerts with equal
// priority keep the order in which they were raised.
func (e *Engine) Generate(in Input) []Alert {
	alerts := make([]Alert, 0, 4)

	switch {
	case in.RiskScore >= criticalRiskScore:
		alerts = append(alerts, Alert{
			Type:     TypeCritical,
			Category: "Risk Assessment",
			Message:  fmt.Sprintf("Critical risk level detected (Score: %d)", in.RiskScore),
			Priority: 1,
			Action:   "Immediate medical review recommended",
			Color:    colorCritical,
		})
	case in.RiskScore >= highRiskScore:
		alerts = append(alerts, Alert{
			Type:     TypeWarning,
			Category: "Risk Assessment",
			Message:  fmt.Sprintf("High risk level detected (Score: %d)", in.RiskScore),
			Priority: 2,
			Action:   "Schedule follow-up within 48 hours",
			Color:    colorWarning,
		})
	}

	if n := len(in.Diseases); n >= multipleConditions {
		alerts = append(alerts, Alert{
			Type:     TypeInfo,
			Category: "Complexity",
			Message:  fmt.Sprintf("Multiple conditions detected (%d conditions)", n),
			Priority: 3,
			Action:   "Consider multidisciplinary consultation",
			Color:    colorInfo,
		})
	}

	if n := len(in.Medications); n >= polypharmacyCount {
		alerts = append(alerts, Alert{
			Type:     TypeWarning,
			Category: "Medication Safety",
			Message:  fmt.Sprintf("Polypharmacy risk (%d medications)", n),
			Priority: 2,
			Action:   "Review medication interactions and necessity",
			Color:    colorWarning,
		})
	}

	for _, msg := range Interactions(in.Medications) {
		alerts = append(alerts, Alert{
			Type:     TypeDanger,
			Category: "Drug Interaction",
			Message:  msg,
			Priority: 1,
			Action:   interactionAction,
			Color:    colorDanger,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority < alerts[j].Priority
	})
	return alerts
}

// Interactions returns the message of every dangerous pair fully present in
// medications. Names are compared whole, ignoring case.
func Interactions(medications []string) []string {
	have := make(map[string]bool, len(medications))
	for _, m := range medications {
		have[strings.ToLower(m)] = true
	}

	var out []string
	for _, p := range dangerousPairs {
		all := true
		for _, d := range p.Drugs {
			if !have[d] {
				all = false
				break
			}
		}
		if all {
			out = append(out, p.Message)
		}
	}
	return out
}
