package impact

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/domain/risk"
)

type Service struct {
	store      AssessmentStore
	comparator *Comparator
	logger     zerolog.Logger
}

func NewService(store AssessmentStore, comparator *Comparator, logger zerolog.Logger) *Service {
	return &Service{store: store, comparator: comparator, logger: logger}
}

func (s *Service) Comparator() *Comparator {
	return s.comparator
}

// RecordAssessment stores a risk assessment for later period analysis.
func (s *Service) RecordAssessment(ctx context.Context, p patient.Attributes, a *risk.Assessment) error {
	rec := &Record{
		RiskScore:   a.Score,
		RiskLevel:   a.Level,
		Diseases:    append([]string{}, p.Diseases...),
		Medications: append([]string{}, p.Medications...),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return fmt.Errorf("store assessment: %w", err)
	}
	s.logger.Debug().Str("id", rec.ID.String()).Str("level", rec.RiskLevel).Msg("assessment recorded")
	return nil
}

func (s *Service) ListAssessments(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	items, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}
	return items, total, nil
}

// Snapshot aggregates the stored assessments of one window.
func (s *Service) Snapshot(ctx context.Context, w Window) (*Snapshot, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	recs, err := s.store.ListBetween(ctx, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("list assessments between %s and %s: %w", w.From, w.To, err)
	}
	records := make([]Record, len(recs))
	for i, r := range recs {
		records[i] = *r
	}
	snap := s.comparator.Aggregate(records)
	snap.Period = w.Period
	return snap, nil
}

// ComparePeriods aggregates both windows from storage and compares them.
func (s *Service) ComparePeriods(ctx context.Context, before, after Window) (*Report, error) {
	b, err := s.Snapshot(ctx, before)
	if err != nil {
		return nil, err
	}
	a, err := s.Snapshot(ctx, after)
	if err != nil {
		return nil, err
	}
	return s.comparator.Compare(*b, *a), nil
}
