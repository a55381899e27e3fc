package outcome

import (
	"bytes"
	"encoding/json"
	"time"
)

// Factor is one additive contribution to an outcome model. Keys of the form
// age_over_N compare the patient's age against N; "polypharmacy" and
// "multiple_conditions" are count checks; any other key is matched against
// disease names.
type Factor struct {
	Key    string
	Weight float64
}

// Model is a base-rate-plus-factors probability model for one outcome.
type Model struct {
	Name     string
	BaseRate float64
	Factors  []Factor
}

var models = []Model{
	{
		Name:     "hospitalization_30day",
		BaseRate: 0.05,
		Factors: []Factor{
			{"heart_failure", 0.15},
			{"copd", 0.10},
			{"diabetes", 0.05},
			{"age_over_75", 0.08},
			{"multiple_conditions", 0.07},
		},
	},
	{
		Name:     "readmission_30day",
		BaseRate: 0.08,
		Factors: []Factor{
			{"heart_failure", 0.20},
			{"copd", 0.12},
			{"diabetes", 0.06},
			{"previous_admission", 0.15},
		},
	},
	{
		Name:     "adverse_event",
		BaseRate: 0.02,
		Factors: []Factor{
			{"polypharmacy", 0.05},
			{"drug_interaction", 0.10},
			{"age_over_65", 0.03},
		},
	},
}

// Models returns a copy of the outcome models in evaluation order.
func Models() []Model {
	out := make([]Model, len(models))
	for i, m := range models {
		out[i] = Model{Name: m.Name, BaseRate: m.BaseRate, Factors: append([]Factor(nil), m.Factors...)}
	}
	return out
}

// Risk categories.
const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
	RiskVeryLow  = "Very Low"
)

// Prediction is the result of one outcome model.
type Prediction struct {
	Outcome        string   `json:"-"`
	Probability    float64  `json:"probability"`
	RiskLevel      string   `json:"risk_level"`
	Confidence     int      `json:"confidence"`
	FactorsPresent []string `json:"factors_present"`
}

type Prognosis struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
}

// Report holds every outcome prediction plus the aggregate prognosis. It
// encodes as a flat object keyed by outcome name.
type Report struct {
	Predictions      []Prediction
	OverallPrognosis Prognosis
	PredictedAt      time.Time
}

// Get returns the prediction for the named outcome.
func (r *Report) Get(outcome string) (Prediction, bool) {
	for _, p := range r.Predictions {
		if p.Outcome == outcome {
			return p, true
		}
	}
	return Prediction{}, false
}

func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}
	for _, p := range r.Predictions {
		if err := write(p.Outcome, p); err != nil {
			return nil, err
		}
	}
	if err := write("overall_prognosis", r.OverallPrognosis); err != nil {
		return nil, err
	}
	if err := write("predicted_at", r.PredictedAt); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
