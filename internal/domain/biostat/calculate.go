package biostat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Metric kinds accepted by Calculate.
const (
	KindNNT                    = "nnt"
	KindOddsRatio              = "odds_ratio"
	KindSensitivitySpecificity = "sensitivity_specificity"
)

var (
	ErrUnsupportedKind = errors.New("unsupported metric type")
	ErrInvalidData     = errors.New("invalid metric data")
)

// BaselineRisk is accepted but does not affect the result.
type nntInput struct {
	RiskReduction float64 `json:"risk_reduction"`
	BaselineRisk  float64 `json:"baseline_risk"`
}

type oddsRatioInput struct {
	ExposedEvents int `json:"exposed_events"`
	ExposedTotal  int `json:"exposed_total"`
	ControlEvents int `json:"control_events"`
	ControlTotal  int `json:"control_total"`
}

type confusionInput struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Calculate dispatches on kind. Fields missing from data take the defaults
// risk_reduction=0.1, baseline_risk=0.2, exposed_total=1, control_total=1 and
// 0 for every count.
func Calculate(kind string, data json.RawMessage) (interface{}, error) {
	switch kind {
	case KindNNT:
		in := nntInput{RiskReduction: 0.1, BaselineRisk: 0.2}
		if err := decode(data, &in); err != nil {
			return nil, err
		}
		return newNNTResult(NNT(in.RiskReduction)), nil
	case KindOddsRatio:
		in := oddsRatioInput{ExposedTotal: 1, ControlTotal: 1}
		if err := decode(data, &in); err != nil {
			return nil, err
		}
		return OddsRatio(in.ExposedEvents, in.ExposedTotal, in.ControlEvents, in.ControlTotal), nil
	case KindSensitivitySpecificity:
		var in confusionInput
		if err := decode(data, &in); err != nil {
			return nil, err
		}
		return DiagnosticAccuracy(in.TP, in.FP, in.TN, in.FN), nil
	}
	return nil, ErrUnsupportedKind
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}
