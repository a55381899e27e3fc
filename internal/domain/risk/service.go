package risk

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/platform/metrics"
)

// Recorder persists assessments for later impact analysis.
type Recorder interface {
	RecordAssessment(ctx context.Context, p patient.Attributes, a *Assessment) error
}

type Service struct {
	scorer   *Scorer
	recorder Recorder
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewService(scorer *Scorer, recorder Recorder, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{scorer: scorer, recorder: recorder, metrics: m, logger: logger}
}

func (s *Service) Scorer() *Scorer {
	return s.scorer
}

// Predict validates and scores p, then records the result. A failed write is
// logged and does not fail the prediction.
func (s *Service) Predict(ctx context.Context, p patient.Attributes) (*Assessment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a := s.scorer.Assess(p)
	s.metrics.ObserveAssessment(a.Level)
	s.Record(ctx, p, a)
	return a, nil
}

// Record stores an assessment produced elsewhere (for example by the
// comprehensive pipeline).
func (s *Service) Record(ctx context.Context, p patient.Attributes, a *Assessment) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordAssessment(ctx, p, a); err != nil {
		s.logger.Warn().Err(err).Str("level", a.Level).Msg("failed to record assessment")
	}
}
