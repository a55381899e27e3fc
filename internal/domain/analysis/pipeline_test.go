package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/domain/alerting"
	"github.com/clara/clara/internal/domain/insights"
	"github.com/clara/clara/internal/domain/nlp"
	"github.com/clara/clara/internal/domain/outcome"
	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/internal/platform/metrics"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const sampleTranscript = "Patient has hypertension and takes warfarin and aspirin. Complains of chest pain."

type mockRecorder struct {
	mu      sync.Mutex
	records []*risk.Assessment
}

func (m *mockRecorder) RecordAssessment(ctx context.Context, p patient.Attributes, a *risk.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, a)
	return nil
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func newTestPipeline(rec risk.Recorder, concurrency int) *Pipeline {
	clock := func() time.Time { return fixedNow }
	analyzer := nlp.NewAnalyzer()
	analyzer.Now = clock
	scorer := risk.NewScorer()
	scorer.Now = clock
	ins := insights.NewEngine(insights.StaticEstimator{})
	ins.Now = clock
	pred := outcome.NewPredictor()
	pred.Now = clock

	p := NewPipeline(Deps{
		NLP:         nlp.NewService(analyzer),
		Risk:        risk.NewService(scorer, rec, nil, zerolog.Nop()),
		Alerts:      alerting.NewEngine(),
		Insights:    ins,
		Outcomes:    pred,
		Metrics:     metrics.New(),
		Concurrency: concurrency,
	})
	p.Now = clock
	return p
}

func TestComprehensive(t *testing.T) {
	rec := &mockRecorder{}
	p := newTestPipeline(rec, 1)

	res, err := p.Comprehensive(context.Background(), Request{
		Transcript: sampleTranscript,
		Patient:    PatientContext{Name: "Jane Doe", Age: patient.IntPtr(70)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := res.NLPAnalysis.Entities.Diseases; len(got) != 1 || got[0] != "Hypertension" {
		t.Errorf("unexpected diseases %v", got)
	}
	if res.RiskPrediction.Score != 55 || res.RiskPrediction.Level != risk.LevelHigh {
		t.Errorf("expected score 55 High, got %d %s", res.RiskPrediction.Score, res.RiskPrediction.Level)
	}
	if len(res.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(res.Alerts), res.Alerts)
	}
	if res.Alerts[0].Type != alerting.TypeDanger || res.Alerts[1].Type != alerting.TypeWarning {
		t.Errorf("expected interaction alert before risk warning, got %s, %s", res.Alerts[0].Type, res.Alerts[1].Type)
	}
	if res.ClinicalInsights == nil || res.OutcomePredictions == nil {
		t.Fatal("expected insights and outcome predictions")
	}
	if res.ClinicalInsights.PatientSummary.Age != 70 {
		t.Errorf("expected age carried into insights, got %+v", res.ClinicalInsights.PatientSummary)
	}
	if res.ModelVersions.RiskModel != risk.ModelVersion || res.ModelVersions.NLP != NLPVersion {
		t.Errorf("unexpected model versions %+v", res.ModelVersions)
	}
	if !res.AnalysisTimestamp.Equal(fixedNow) {
		t.Errorf("expected timestamp %v, got %v", fixedNow, res.AnalysisTimestamp)
	}
	if rec.count() != 1 {
		t.Errorf("expected assessment recorded once, got %d", rec.count())
	}
}

func TestComprehensive_Errors(t *testing.T) {
	p := newTestPipeline(nil, 1)
	ctx := context.Background()

	if _, err := p.Comprehensive(ctx, Request{}); !errors.Is(err, nlp.ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
	_, err := p.Comprehensive(ctx, Request{Transcript: sampleTranscript, Patient: PatientContext{Age: patient.IntPtr(-1)}})
	if !errors.Is(err, patient.ErrNegativeAge) {
		t.Errorf("expected ErrNegativeAge, got %v", err)
	}
}

func TestBatch_PreservesOrder(t *testing.T) {
	rec := &mockRecorder{}
	p := newTestPipeline(rec, 4)

	var items []BatchItem
	for i := 0; i < 20; i++ {
		text := "Patient reports headache."
		if i%2 == 0 {
			text = "History of stroke, complains of dizziness."
		}
		items = append(items, BatchItem{ID: fmt.Sprintf("t%d", i), Text: text})
	}
	items = append(items, BatchItem{ID: "empty"}, BatchItem{ID: "blank", Text: "   "})

	res, err := p.Batch(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Processed != len(items) {
		t.Fatalf("expected %d processed, got %d", len(items), res.Processed)
	}
	for i, entry := range res.Results[:20] {
		if entry.ID != fmt.Sprintf("t%d", i) {
			t.Fatalf("result %d out of order: %s", i, entry.ID)
		}
		if entry.Risk == nil || entry.NLP == nil {
			t.Fatalf("result %d missing analysis", i)
		}
		wantScore := 0
		if i%2 == 0 {
			wantScore = 50 // stroke 40 + dizziness 10
		}
		if entry.Risk.Score != wantScore {
			t.Errorf("result %d: expected score %d, got %d", i, wantScore, entry.Risk.Score)
		}
	}

	for _, entry := range res.Results[20:] {
		if entry.Error != "" || entry.NLP == nil || entry.Risk == nil {
			t.Fatalf("%s: expected an empty analysis, got %+v", entry.ID, entry)
		}
		if entry.NLP.Metrics.EntityCount != 0 {
			t.Errorf("%s: expected no entities, got %d", entry.ID, entry.NLP.Metrics.EntityCount)
		}
		if entry.Risk.Score != 0 || entry.Risk.Level != risk.LevelFor(0) {
			t.Errorf("%s: expected score 0/%s, got %d/%s", entry.ID, risk.LevelFor(0), entry.Risk.Score, entry.Risk.Level)
		}
	}
	if rec.count() != 0 {
		t.Errorf("batch scores must not be recorded, got %d", rec.count())
	}
}

func TestBatch_Empty(t *testing.T) {
	res, err := newTestPipeline(nil, 2).Batch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := json.Marshal(res)
	if string(data) != `{"results":[],"processed":0}` {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestBatch_TooLarge(t *testing.T) {
	items := make([]BatchItem, MaxBatchSize+1)
	if _, err := newTestPipeline(nil, 2).Batch(context.Background(), items); !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := []BatchItem{{ID: "1", Text: sampleTranscript}}
	if _, err := newTestPipeline(nil, 1).Batch(ctx, items); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func postJSON(path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestHandler_Comprehensive(t *testing.T) {
	h := NewHandler(newTestPipeline(nil, 1))
	req, rec := postJSON("/api/v1/comprehensive-analysis",
		`{"transcript":"`+sampleTranscript+`","patient":{"name":"Jane Doe","age":70}}`)

	if err := h.Comprehensive(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"patient", "nlp_analysis", "risk_prediction", "alerts", "clinical_insights", "outcome_predictions", "model_versions"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing %s in response", key)
		}
	}
}

func TestHandler_Comprehensive_EmptyTranscript(t *testing.T) {
	h := NewHandler(newTestPipeline(nil, 1))
	req, rec := postJSON("/api/v1/comprehensive-analysis", `{"transcript":""}`)

	err := h.Comprehensive(echo.New().NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Batch(t *testing.T) {
	h := NewHandler(newTestPipeline(nil, 2))
	req, rec := postJSON("/api/v1/batch-analyze",
		`{"transcripts":[{"id":"a","text":"Patient has asthma."},{"id":"b","text":"Chest pain radiating."}]}`)

	if err := h.Batch(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Processed != 2 || res.Results[0].ID != "a" || res.Results[1].ID != "b" {
		t.Errorf("unexpected batch result %+v", res)
	}
	if res.Results[1].Risk.Score != 25 {
		t.Errorf("expected chest pain score 25, got %d", res.Results[1].Risk.Score)
	}
}
