package main

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/config"
	"github.com/clara/clara/internal/domain/alerting"
	"github.com/clara/clara/internal/domain/analysis"
	"github.com/clara/clara/internal/domain/biostat"
	"github.com/clara/clara/internal/domain/impact"
	"github.com/clara/clara/internal/domain/insights"
	"github.com/clara/clara/internal/domain/nlp"
	"github.com/clara/clara/internal/domain/outcome"
	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/internal/platform/auth"
	"github.com/clara/clara/internal/platform/cache"
	"github.com/clara/clara/internal/platform/db"
	"github.com/clara/clara/internal/platform/metrics"
	"github.com/clara/clara/internal/platform/middleware"
)

const version = "2.0.0"

// services holds every engine and service the HTTP surface and the CLI share.
type services struct {
	impact   *impact.Service
	risk     *risk.Service
	nlp      *nlp.Service
	alerts   *alerting.Engine
	insights *insights.Engine
	outcomes *outcome.Predictor
	pipeline *analysis.Pipeline
	metrics  *metrics.Metrics
}

func newEstimator(cfg *config.Config) insights.QualityEstimator {
	if cfg.QualityEstimator == config.QualitySimulated {
		return insights.NewSimulatedEstimator(cfg.QualitySeed)
	}
	return insights.StaticEstimator{}
}

// newServices wires the engines. analysisCache and m may be nil.
func newServices(cfg *config.Config, store impact.AssessmentStore, analysisCache cache.Cache, m *metrics.Metrics, logger zerolog.Logger) *services {
	impactSvc := impact.NewService(store, impact.NewComparator(), logger)
	riskSvc := risk.NewService(risk.NewScorer(), impactSvc, m, logger)

	nlpOpts := []nlp.Option{nlp.WithMetrics(m), nlp.WithLogger(logger)}
	if analysisCache != nil {
		nlpOpts = append(nlpOpts, nlp.WithCache(analysisCache, cfg.CacheTTL))
	}
	nlpSvc := nlp.NewService(nlp.NewAnalyzer(), nlpOpts...)

	s := &services{
		impact:   impactSvc,
		risk:     riskSvc,
		nlp:      nlpSvc,
		alerts:   alerting.NewEngine(),
		insights: insights.NewEngine(newEstimator(cfg)),
		outcomes: outcome.NewPredictor(),
		metrics:  m,
	}
	s.pipeline = analysis.NewPipeline(analysis.Deps{
		NLP:         s.nlp,
		Risk:        s.risk,
		Alerts:      s.alerts,
		Insights:    s.insights,
		Outcomes:    s.outcomes,
		Metrics:     m,
		Concurrency: cfg.BatchConcurrency,
	})
	return s
}

func authConfig(cfg *config.Config, logger zerolog.Logger) auth.JWTConfig {
	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
		Logger:   &logger,
	}
	if cfg.AuthSigningKey != "" {
		jwtCfg.SigningKey = []byte(cfg.AuthSigningKey)
	}
	return jwtCfg
}

// newServer builds the echo instance with middleware and every route. pool
// may be nil when assessments are kept in memory.
func newServer(cfg *config.Config, svc *services, pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(svc.metrics.Middleware())
	e.Use(middleware.SecurityHeaders(!cfg.IsDev()))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/metrics"))

	// Ops endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	if svc.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(svc.metrics.Handler()))
	}

	// API
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware(authConfig(cfg, logger)))
	} else {
		apiV1.Use(auth.JWTMiddleware(authConfig(cfg, logger)))
	}

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
		rateLimitCfg.BurstSize = cfg.RateLimitBurst
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	risk.NewHandler(svc.risk).RegisterRoutes(apiV1)
	nlp.NewHandler(svc.nlp).RegisterRoutes(apiV1)
	alerting.NewHandler(svc.alerts, svc.metrics).RegisterRoutes(apiV1)
	insights.NewHandler(svc.insights).RegisterRoutes(apiV1)
	outcome.NewHandler(svc.outcomes).RegisterRoutes(apiV1)
	impact.NewHandler(svc.impact).RegisterRoutes(apiV1)
	biostat.NewHandler().RegisterRoutes(apiV1)
	analysis.NewHandler(svc.pipeline).RegisterRoutes(apiV1)

	return e
}
