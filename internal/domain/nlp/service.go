package nlp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clara/clara/internal/platform/cache"
	"github.com/clara/clara/internal/platform/metrics"
)

// ErrEmptyTranscript is returned when no transcript text is supplied.
var ErrEmptyTranscript = errors.New("transcript required")

const cacheNamespace = "nlp"

type Service struct {
	analyzer *Analyzer
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

type Option func(*Service)

// WithCache memoizes analyses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(analyzer *Analyzer, opts ...Option) *Service {
	s := &Service{analyzer: analyzer, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyzer returns the engine used by the service.
func (s *Service) Analyzer() *Analyzer {
	return s.analyzer
}

// AnalyzeTranscript analyzes transcript, consulting the cache first when one
// is configured. Cache failures are logged and never fail the request.
func (s *Service) AnalyzeTranscript(ctx context.Context, transcript string) (*Analysis, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	var key string
	if s.cache != nil {
		key = cache.Key(cacheNamespace, transcript)
		var cached Analysis
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			s.metrics.ObserveCache(true)
			return &cached, nil
		case errors.Is(err, cache.ErrMiss):
			s.metrics.ObserveCache(false)
		default:
			s.logger.Warn().Err(err).Msg("analysis cache lookup failed")
		}
	}

	result := s.analyzer.Analyze(transcript)
	s.metrics.ObserveTranscript()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("analysis cache store failed")
		}
	}
	return result, nil
}
