// Package biostat computes the clinical statistics exposed by the
// calculate-metric endpoint: number needed to treat, odds ratio with a Woolf
// confidence interval, and diagnostic test accuracy.
package biostat

import (
	"math"

	"github.com/clara/clara/pkg/numeric"
)

// z for a two-sided 95% interval.
const z95 = 1.96

// NNTResult carries the number needed to treat. A non-positive risk
// reduction yields Infinite with a null NNT.
type NNTResult struct {
	NNT      *float64 `json:"nnt"`
	Infinite bool     `json:"infinite"`
}

// NNT returns 1/riskReduction rounded to one decimal, or +Inf when
// riskReduction is not positive.
func NNT(riskReduction float64) float64 {
	if riskReduction <= 0 {
		return math.Inf(1)
	}
	return numeric.Round(1/riskReduction, 1)
}

func newNNTResult(v float64) NNTResult {
	if math.IsInf(v, 1) {
		return NNTResult{Infinite: true}
	}
	return NNTResult{NNT: &v}
}

// OddsRatioResult is null in every field when the 2x2 table is degenerate.
type OddsRatioResult struct {
	OR      *float64 `json:"or"`
	CILower *float64 `json:"ci_lower"`
	CIUpper *float64 `json:"ci_upper"`
}

// Valid reports whether an odds ratio was computed.
func (r OddsRatioResult) Valid() bool {
	return r.OR != nil
}

// OddsRatio builds the 2x2 table a=exposed events, b=exposed non-events,
// c=control events, d=control non-events and returns (a*d)/(b*c) with a 95%
// Woolf interval. Totals not exceeding their event counts, or an empty b or c
// cell, give a null result. The interval collapses to 0 when a or d is zero.
func OddsRatio(exposedEvents, exposedTotal, controlEvents, controlTotal int) OddsRatioResult {
	if exposedTotal <= exposedEvents || controlTotal <= controlEvents {
		return OddsRatioResult{}
	}
	a := float64(exposedEvents)
	b := float64(exposedTotal - exposedEvents)
	c := float64(controlEvents)
	d := float64(controlTotal - controlEvents)
	if b == 0 || c == 0 {
		return OddsRatioResult{}
	}

	or := (a * d) / (b * c)

	var se float64
	if a > 0 && d > 0 {
		se = math.Sqrt(1/a + 1/b + 1/c + 1/d)
	}
	var lower, upper float64
	if or > 0 && se > 0 {
		lower = math.Exp(math.Log(or) - z95*se)
		upper = math.Exp(math.Log(or) + z95*se)
	}

	or, lower, upper = numeric.Round(or, 2), numeric.Round(lower, 2), numeric.Round(upper, 2)
	return OddsRatioResult{OR: &or, CILower: &lower, CIUpper: &upper}
}

// Accuracy holds diagnostic performance as percentages.
type Accuracy struct {
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
	PPV         float64 `json:"ppv"`
	NPV         float64 `json:"npv"`
	Accuracy    float64 `json:"accuracy"`
}

// DiagnosticAccuracy derives the ratios from confusion counts. A ratio with a
// zero denominator is 0.
func DiagnosticAccuracy(tp, fp, tn, fn int) Accuracy {
	return Accuracy{
		Sensitivity: numeric.Percent(tp, tp+fn),
		Specificity: numeric.Percent(tn, tn+fp),
		PPV:         numeric.Percent(tp, tp+fp),
		NPV:         numeric.Percent(tn, tn+fn),
		Accuracy:    numeric.Percent(tp+tn, tp+fp+tn+fn),
	}
}
