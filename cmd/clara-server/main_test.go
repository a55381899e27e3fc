package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/config"
	"github.com/clara/clara/internal/domain/impact"
	"github.com/clara/clara/internal/domain/insights"
	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/internal/platform/auth"
	"github.com/clara/clara/internal/platform/metrics"
)

const testSigningKey = "test-signing-key"

func testConfig(env string) *config.Config {
	return &config.Config{
		Port:             "8000",
		Env:              env,
		CacheTTL:         time.Minute,
		CORSOrigins:      []string{"http://localhost:3000"},
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		RequestTimeout:   5 * time.Second,
		BodyLimit:        "2M",
		BatchConcurrency: 2,
		QualityEstimator: config.QualityStatic,
		AuthSigningKey:   testSigningKey,
	}
}

func testServer(t *testing.T, env string) (*echo.Echo, *metrics.Metrics) {
	t.Helper()
	cfg := testConfig(env)
	m := metrics.New()
	svc := newServices(cfg, impact.NewMemoryStore(100), nil, m, zerolog.Nop())
	return newServer(cfg, svc, nil, zerolog.Nop()), m
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealth(t *testing.T) {
	e, _ := testServer(t, "development")

	rec := do(e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" || body["version"] != version {
		t.Errorf("unexpected health body %v", body)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected request id header")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("expected no HSTS in development")
	}
}

func TestHealthDB_MemoryStorage(t *testing.T) {
	e, _ := testServer(t, "development")

	rec := do(e, http.MethodGet, "/health/db", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"storage":"memory"`) {
		t.Errorf("expected memory storage, got %s", rec.Body.String())
	}
}

func TestPredictRisk_RecordsAssessment(t *testing.T) {
	e, _ := testServer(t, "development")

	rec := do(e, http.MethodPost, "/api/v1/predict-risk", `{"age":70,"diseases":["hypertension"]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/v1/assessments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected 1 stored assessment, got %d", page.Total)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e, _ := testServer(t, "development")

	do(e, http.MethodPost, "/api/v1/predict-risk", `{"diseases":["diabetes"]}`, "")

	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "clara_risk_assessments_total") {
		t.Errorf("expected risk assessment counter in metrics output")
	}
}

func TestProduction_RequiresToken(t *testing.T) {
	e, _ := testServer(t, "production")

	rec := do(e, http.MethodPost, "/api/v1/predict-risk", `{}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS outside development")
	}
}

func TestProduction_RoleEnforcement(t *testing.T) {
	e, _ := testServer(t, "production")
	analyst := signToken(t, "analyst-1", auth.RoleAnalyst)

	rec := do(e, http.MethodPost, "/api/v1/predict-risk", `{"diseases":["asthma"]}`, analyst)
	if rec.Code != http.StatusOK {
		t.Errorf("predict-risk: expected 200 for analyst, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/calculate-metric", `{"metric_type":"nnt","data":{"risk_reduction":0.25}}`, analyst)
	if rec.Code != http.StatusOK {
		t.Errorf("calculate-metric: expected 200 for analyst, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/comprehensive-analysis", `{"transcript":"Patient has asthma."}`, analyst)
	if rec.Code != http.StatusForbidden {
		t.Errorf("comprehensive-analysis: expected 403 for analyst, got %d", rec.Code)
	}

	clinician := signToken(t, "clinician-1", auth.RoleClinician)
	rec = do(e, http.MethodPost, "/api/v1/comprehensive-analysis", `{"transcript":"Patient has asthma."}`, clinician)
	if rec.Code != http.StatusOK {
		t.Errorf("comprehensive-analysis: expected 200 for clinician, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScoreCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"score", "--age", "70", "--disease", "hypertension", "--medication", "warfarin", "--symptom", "chest pain"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got risk.Assessment
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, out.String())
	}
	want := risk.NewScorer().Assess(patient.Attributes{
		Age:         patient.IntPtr(70),
		Diseases:    []string{"hypertension"},
		Medications: []string{"warfarin"},
		Symptoms:    []string{"chest pain"},
	})
	if got.Score != want.Score || got.Level != want.Level {
		t.Errorf("score = %d/%s, want %d/%s", got.Score, got.Level, want.Score, want.Level)
	}
}

func TestScoreCmd_NegativeAge(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"score", "--age=-1"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for negative age")
	}
}

func TestAnalyzeCmd_Stdin(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Patient has diabetes and takes metformin.\n"))
	cmd.SetArgs([]string{"analyze", "--patient-id", "p-1", "--age", "55"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var result struct {
		Patient struct {
			ID  string `json:"id"`
			Age int    `json:"age"`
		} `json:"patient"`
		ModelVersions map[string]string `json:"model_versions"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, out.String())
	}
	if result.Patient.ID != "p-1" || result.Patient.Age != 55 {
		t.Errorf("unexpected patient %+v", result.Patient)
	}
	if result.ModelVersions["nlp"] == "" {
		t.Error("expected model versions in output")
	}
}

func TestReadTranscript_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visit.txt")
	if err := os.WriteFile(path, []byte("  Patient reports headache.  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := readTranscript(strings.NewReader("ignored"), path)
	if err != nil {
		t.Fatalf("readTranscript: %v", err)
	}
	if got != "Patient reports headache." {
		t.Errorf("got %q", got)
	}

	if _, err := readTranscript(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewEstimator(t *testing.T) {
	cfg := testConfig("development")
	if _, ok := newEstimator(cfg).(insights.StaticEstimator); !ok {
		t.Error("expected static estimator by default")
	}

	cfg.QualityEstimator = config.QualitySimulated
	if _, ok := newEstimator(cfg).(*insights.SimulatedEstimator); !ok {
		t.Error("expected simulated estimator")
	}
}
