package impact

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/pkg/numeric"
)

const (
	topN = 10

	baseImpactScore = 50.0
	maxImpactScore  = 100.0
	maxVolumeCredit = 20

	significantImpact = 75.0
	moderateImpact    = 50.0
)

// Comparator aggregates assessment records and compares snapshots.
type Comparator struct {
	Now func() time.Time
}

func NewComparator() *Comparator {
	return &Comparator{Now: time.Now}
}

func (c *Comparator) now() time.Time {
	return c.Now().UTC()
}

// Aggregate summarizes records. Records without a level count as "Unknown".
func (c *Comparator) Aggregate(records []Record) *Snapshot {
	snap := &Snapshot{
		RiskDistribution: map[string]int{},
		TopDiseases:      []Frequency{},
		TopMedications:   []Frequency{},
		Timestamp:        c.now(),
	}
	if len(records) == 0 {
		return snap
	}

	total := len(records)
	sum := 0
	var diseases, meds []string
	for _, r := range records {
		level := r.RiskLevel
		if level == "" {
			level = unknownLevel
		}
		snap.RiskDistribution[level]++
		sum += r.RiskScore
		diseases = append(diseases, r.Diseases...)
		meds = append(meds, r.Medications...)
	}

	snap.TotalAnalyses = total
	snap.AverageRiskScore = numeric.Round(float64(sum)/float64(total), 1)
	snap.TopDiseases = TopFrequencies(diseases, topN)
	snap.TopMedications = TopFrequencies(meds, topN)
	snap.HighRiskRate = numeric.Percent(snap.RiskDistribution[risk.LevelHigh], total)
	snap.CriticalRate = numeric.Percent(snap.RiskDistribution[risk.LevelCritical], total)
	return snap
}

// TopFrequencies counts names and returns the n most common, ordered by count
// descending with ties kept in first-seen order.
func TopFrequencies(names []string, n int) []Frequency {
	index := map[string]int{}
	out := []Frequency{}
	for _, name := range names {
		if i, ok := index[name]; ok {
			out[i].Count++
			continue
		}
		index[name] = len(out)
		out = append(out, Frequency{Name: name, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Compare diffs after against before over the compared metrics. A metric
// whose before value is not positive is left out of the report.
func (c *Comparator) Compare(before, after Snapshot) *Report {
	rep := &Report{
		PeriodComparison: PeriodComparison{
			Before: periodOr(before.Period, "Baseline"),
			After:  periodOr(after.Period, "Current"),
		},
		Metrics:       MetricChanges{},
		Improvements:  []string{},
		AreasForFocus: []string{},
		CalculatedAt:  c.now(),
	}

	totalImprovement := 0.0
	for _, m := range comparedMetrics {
		b, a := before.value(m.Key), after.value(m.Key)
		if b <= 0 {
			continue
		}
		change := a - b
		pct := change / b * 100
		improved := (m.Direction == LowerBetter && change < 0) ||
			(m.Direction == HigherBetter && change > 0)

		rep.Metrics = append(rep.Metrics, MetricChange{
			Key:           m.Key,
			Label:         m.Label,
			Before:        b,
			After:         a,
			Change:        numeric.Round(change, 1),
			ChangePercent: numeric.Round(pct, 1),
			IsImprovement: improved,
		})

		if improved {
			rep.Improvements = append(rep.Improvements, fmt.Sprintf("%s: %.1f%% improvement", m.Label, math.Abs(pct)))
			totalImprovement += math.Abs(pct)
		} else {
			rep.AreasForFocus = append(rep.AreasForFocus, fmt.Sprintf("%s: %.1f%% decline", m.Label, math.Abs(pct)))
		}
	}

	rep.OverallImpactScore = math.Min(maxImpactScore, baseImpactScore+totalImprovement/2)
	rep.Summary = summarize(rep)
	return rep
}

func periodOr(p, def string) string {
	if p == "" {
		return def
	}
	return p
}

func summarize(rep *Report) Summary {
	s := Summary{
		Score:             numeric.Round(rep.OverallImpactScore, 1),
		ImprovementsCount: len(rep.Improvements),
		FocusAreasCount:   len(rep.AreasForFocus),
	}
	switch {
	case rep.OverallImpactScore >= significantImpact:
		s.Status = "Significant Positive Impact"
		s.Recommendation = "Continue current strategies and expand successful practices."
	case rep.OverallImpactScore >= moderateImpact:
		s.Status = "Moderate Positive Impact"
		s.Recommendation = "Review areas needing improvement while maintaining successes."
	default:
		s.Status = "Limited Impact"
		s.Recommendation = "Consider revising intervention strategies."
	}
	return s
}

// ScoreChange computes the weighted period score: 50, plus the drop in
// average risk, plus twice the drop in high-risk rate, plus up to 20 for
// added volume, capped at 100.
func (c *Comparator) ScoreChange(before, after Snapshot) *ScoreDelta {
	d := &ScoreDelta{
		VolumeChange:       after.TotalAnalyses - before.TotalAnalyses,
		HighRiskRateChange: numeric.Round(after.HighRiskRate-before.HighRiskRate, 1),
		Timestamp:          c.now(),
	}

	score := baseImpactScore
	if before.AverageRiskScore > 0 {
		change := after.AverageRiskScore - before.AverageRiskScore
		rc := numeric.Round(change, 1)
		pct := numeric.Round(change/before.AverageRiskScore*100, 1)
		d.RiskChange = &rc
		d.RiskChangePercent = &pct
		if rc < 0 {
			score += math.Abs(rc)
		}
	}
	if d.HighRiskRateChange < 0 {
		score += math.Abs(d.HighRiskRateChange) * 2
	}
	if d.VolumeChange > 0 {
		score += float64(min(d.VolumeChange, maxVolumeCredit))
	}

	d.OverallImpactScore = math.Min(numeric.Round(score, 1), maxImpactScore)
	return d
}
