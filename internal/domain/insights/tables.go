package insights

// Guideline is the evidence-based care bundle for one condition family.
type Guideline struct {
	Key        string
	Monitoring []string
	Targets    Targets
	Lifestyle  []string
}

// ComorbidityRule applies when every key matches at least one disease.
type ComorbidityRule struct {
	Keys       []string
	Multiplier float64
}

type testRule struct {
	triggers []string
	tests    []string
}

// A disease receives the first guideline whose key it contains.
var guidelines = []Guideline{
	{
		Key:        "diabetes",
		Monitoring: []string{"HbA1c every 3 months", "Fasting glucose", "Kidney function annually"},
		Targets:    Targets{{"HbA1c", "<7%"}, {"Fasting glucose", "80-130 mg/dL"}},
		Lifestyle:  []string{"Regular exercise", "Diet modification", "Weight management"},
	},
	{
		Key:        "hypertension",
		Monitoring: []string{"Blood pressure twice daily", "Kidney function", "Electrolytes"},
		Targets:    Targets{{"Systolic", "<130 mmHg"}, {"Diastolic", "<80 mmHg"}},
		Lifestyle:  []string{"Reduce sodium", "DASH diet", "Limit alcohol"},
	},
	{
		Key:        "heart_disease",
		Monitoring: []string{"ECG", "Echocardiogram", "Lipid panel", "BNP if heart failure"},
		Targets:    Targets{{"LDL", "<70 mg/dL"}, {"Heart rate", "60-100 bpm"}},
		Lifestyle:  []string{"Cardiac rehab", "Stress management", "No smoking"},
	},
}

var generalGuideline = Recommendation{
	Condition:     "General Health",
	Monitoring:    []string{"Annual physical exam", "Basic blood work"},
	Targets:       Targets{{"BMI", "18.5-24.9"}},
	Lifestyle:     []string{"Regular exercise", "Balanced diet", "Adequate sleep"},
	EvidenceLevel: evidenceModerate,
}

var comorbidityRules = []ComorbidityRule{
	{Keys: []string{"diabetes", "hypertension"}, Multiplier: 1.5},
	{Keys: []string{"diabetes", "heart_disease"}, Multiplier: 2.0},
	{Keys: []string{"hypertension", "heart_disease"}, Multiplier: 1.8},
	{Keys: []string{"diabetes", "kidney_disease"}, Multiplier: 2.2},
	{Keys: []string{"diabetes", "hypertension", "heart_disease"}, Multiplier: 3.0},
}

var monitoringTests = []testRule{
	{triggers: []string{"diabetes"}, tests: []string{"HbA1c", "Fasting glucose", "Kidney function"}},
	{triggers: []string{"heart", "cardiac"}, tests: []string{"ECG", "Lipid panel", "Cardiac enzymes"}},
	{triggers: []string{"hypertension", "blood pressure"}, tests: []string{"Renal function", "Electrolytes"}},
}

var vitalSigns = []string{"Blood pressure", "Heart rate", "Weight"}

const (
	evidenceStrong   = "Class I (Strong)"
	evidenceModerate = "Class IIa (Moderate)"

	advancedAge         = 65
	screeningAge        = 50
	complexConditions   = 3
	moderateConditions  = 2
	polypharmacyCount   = 5
	moderateMedications = 3
	primaryConditionMax = 3
	highImpactFactor    = 2.0
	defaultRiskScore    = 50
)

func cloneTargets(t Targets) Targets {
	return append(Targets(nil), t...)
}

func cloneGuideline(g Guideline) Guideline {
	return Guideline{
		Key:        g.Key,
		Monitoring: append([]string(nil), g.Monitoring...),
		Targets:    cloneTargets(g.Targets),
		Lifestyle:  append([]string(nil), g.Lifestyle...),
	}
}

// Guidelines returns a copy of the guideline table in match order.
func Guidelines() []Guideline {
	out := make([]Guideline, len(guidelines))
	for i, g := range guidelines {
		out[i] = cloneGuideline(g)
	}
	return out
}

// ComorbidityRules returns a copy of the comorbidity table.
func ComorbidityRules() []ComorbidityRule {
	out := make([]ComorbidityRule, len(comorbidityRules))
	for i, r := range comorbidityRules {
		out[i] = ComorbidityRule{Keys: append([]string(nil), r.Keys...), Multiplier: r.Multiplier}
	}
	return out
}
