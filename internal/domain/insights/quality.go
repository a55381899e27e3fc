package insights

import (
	"math/rand"
	"sync"
)

// QualityEstimator supplies the care-quality figures reported alongside
// insights. None of them are derived from patient outcomes.
type QualityEstimator interface {
	Estimate(in Input) QualityMetrics
}

const documentationCompleteness = 85

func riskStratification(in Input) int {
	if in.RiskScore != nil {
		return *in.RiskScore
	}
	return defaultRiskScore
}

// StaticEstimator reports fixed mid-range figures.
type StaticEstimator struct{}

func (StaticEstimator) Estimate(in Input) QualityMetrics {
	return QualityMetrics{
		CareGapScore:              82,
		AdherenceEstimate:         75,
		RiskStratification:        riskStratification(in),
		DocumentationCompleteness: documentationCompleteness,
		BenchmarkComparison:       Benchmark{VsNational: "+5%", VsRegional: "+8%"},
	}
}

// SimulatedEstimator draws demo figures from a seeded source.
type SimulatedEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedEstimator(seed int64) *SimulatedEstimator {
	return &SimulatedEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedEstimator) Estimate(in Input) QualityMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	national, regional := "-3%", "-2%"
	careGap := 70 + s.rng.Intn(26)
	adherence := 60 + s.rng.Intn(31)
	if s.rng.Float64() > 0.5 {
		national = "+5%"
	}
	if s.rng.Float64() > 0.5 {
		regional = "+8%"
	}

	return QualityMetrics{
		CareGapScore:              careGap,
		AdherenceEstimate:         adherence,
		RiskStratification:        riskStratification(in),
		DocumentationCompleteness: documentationCompleteness,
		BenchmarkComparison:       Benchmark{VsNational: national, VsRegional: regional},
	}
}
