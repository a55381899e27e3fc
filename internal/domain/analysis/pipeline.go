package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clara/clara/internal/domain/alerting"
	"github.com/clara/clara/internal/domain/insights"
	"github.com/clara/clara/internal/domain/nlp"
	"github.com/clara/clara/internal/domain/outcome"
	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/internal/platform/metrics"
)

// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
var ErrBatchTooLarge = fmt.Errorf("batch exceeds %d transcripts", MaxBatchSize)

// Pipeline chains the engines: transcript analysis feeds risk scoring, which
// feeds alerts, insights and outcome prediction.
type Pipeline struct {
	nlp         *nlp.Service
	risk        *risk.Service
	alerts      *alerting.Engine
	insights    *insights.Engine
	outcomes    *outcome.Predictor
	metrics     *metrics.Metrics
	concurrency int

	Now func() time.Time
}

type Deps struct {
	NLP      *nlp.Service
	Risk     *risk.Service
	Alerts   *alerting.Engine
	Insights *insights.Engine
	Outcomes *outcome.Predictor
	Metrics  *metrics.Metrics
	// Concurrency bounds batch workers; values below 1 mean 1.
	Concurrency int
}

func NewPipeline(d Deps) *Pipeline {
	if d.Concurrency < 1 {
		d.Concurrency = 1
	}
	return &Pipeline{
		nlp:         d.NLP,
		risk:        d.Risk,
		alerts:      d.Alerts,
		insights:    d.Insights,
		outcomes:    d.Outcomes,
		metrics:     d.Metrics,
		concurrency: d.Concurrency,
		Now:         time.Now,
	}
}

// Comprehensive runs every engine on one transcript. The risk assessment is
// recorded like a direct prediction.
func (p *Pipeline) Comprehensive(ctx context.Context, req Request) (*Result, error) {
	analysis, err := p.nlp.AnalyzeTranscript(ctx, req.Transcript)
	if err != nil {
		return nil, err
	}

	attrs := attributesFrom(analysis, req.Patient.Age)
	assessment, err := p.risk.Predict(ctx, attrs)
	if err != nil {
		return nil, err
	}

	alerts := p.alerts.Generate(alerting.Input{
		RiskScore:   assessment.Score,
		Diseases:    attrs.Diseases,
		Medications: attrs.Medications,
	})
	for _, a := range alerts {
		p.metrics.ObserveAlert(a.Type)
	}

	score := assessment.Score
	return &Result{
		Patient:            req.Patient,
		NLPAnalysis:        analysis,
		RiskPrediction:     assessment,
		Alerts:             alerts,
		ClinicalInsights:   p.insights.Generate(insights.Input{Attributes: attrs, RiskScore: &score}),
		OutcomePredictions: p.outcomes.Predict(attrs),
		AnalysisTimestamp:  p.Now().UTC(),
		ModelVersions: ModelVersions{
			NLP:       NLPVersion,
			RiskModel: risk.ModelVersion,
			Insights:  InsightsVersion,
			Outcomes:  OutcomesVersion,
		},
	}, nil
}

// Batch analyzes and scores each item with bounded concurrency. Results keep
// input order; an item that cannot be analyzed carries its error instead of
// failing the batch. Blank items are scored like any other. Batch scores are
// not recorded.
func (p *Pipeline) Batch(ctx context.Context, items []BatchItem) (*BatchResult, error) {
	if len(items) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]BatchEntry, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.batchEntry(gctx, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchResult{Results: results, Processed: len(results)}, nil
}

func (p *Pipeline) batchEntry(ctx context.Context, item BatchItem) BatchEntry {
	entry := BatchEntry{ID: item.ID}
	analysis, err := p.nlp.AnalyzeTranscript(ctx, item.Text)
	if errors.Is(err, nlp.ErrEmptyTranscript) {
		// blank items get an empty analysis and a Low score
		analysis, err = p.nlp.Analyzer().Analyze(item.Text), nil
	}
	if err != nil {
		entry.Error = fmt.Sprintf("analyze transcript: %v", err)
		return entry
	}

	assessment := p.risk.Scorer().Assess(attributesFrom(analysis, nil))
	p.metrics.ObserveAssessment(assessment.Level)

	entry.NLP = analysis
	entry.Risk = assessment
	return entry
}

func attributesFrom(a *nlp.Analysis, age *int) patient.Attributes {
	return patient.Attributes{
		Age:         age,
		Diseases:    a.Entities.Diseases,
		Medications: a.Entities.Medications,
		Symptoms:    a.Entities.Symptoms,
	}
}
