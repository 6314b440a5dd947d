package fixtures

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

const (
	WarnNoAPIKey      = "Football API key not configured. Using sample data."
	WarnInvalidAPIKey = "Invalid football API key. Using sample data."
	WarnUnavailable   = "Could not load live fixtures. Using sample data."
)

// Provider is the live source of matches.
type Provider interface {
	// Configured reports whether a credential is set. Without one no lookup,
	// cached or live, may report live data.
	Configured() bool
	Matches(ctx context.Context, code string) ([]models.Match, error)
}

// Cache keeps recent live results per competition code. Implementations
// report a miss with ok == false.
type Cache interface {
	Get(ctx context.Context, code string) (matches []models.Match, ok bool, err error)
	Set(ctx context.Context, code string, matches []models.Match) error
}

// Result is what a lookup hands to the caller. It is never an error: when the
// provider cannot be used the sample matches are returned with a warning.
type Result struct {
	Matches []models.Match
	Warning string
	// Live is true when Matches came from the provider or its cache.
	Live bool
	// Unusable is set when the provider must not be asked again this session.
	Unusable bool
}

type Service struct {
	provider Provider
	cache    Cache
}

// NewService builds a lookup service. cache may be nil.
func NewService(provider Provider, cache Cache) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
	}
}

// Lookup serves cached matches when available and asks the provider
// otherwise. Callers must have validated the provider with Validate first.
func (s *Service) Lookup(ctx context.Context, code string) Result {
	return s.lookup(ctx, code, true)
}

// Validate always asks the provider, so a rejected key is seen even when the
// cache holds matches for code. A successful result is still cached.
func (s *Service) Validate(ctx context.Context, code string) Result {
	return s.lookup(ctx, code, false)
}

func noKeyResult(code string) Result {
	log.Warn("Football API key missing, serving sample fixtures", zap.String("code", code))
	return Result{Matches: Fallback(), Warning: WarnNoAPIKey, Unusable: true}
}

func (s *Service) lookup(ctx context.Context, code string, useCache bool) Result {
	if !s.provider.Configured() {
		return noKeyResult(code)
	}

	if useCache && s.cache != nil {
		matches, ok, err := s.cache.Get(ctx, code)
		if err != nil {
			log.Warn("Fixture cache read failed", zap.String("code", code), zap.Error(err))
		} else if ok {
			log.Debug("Fixture cache hit", zap.String("code", code), zap.Int("count", len(matches)))
			return Result{Matches: matches, Live: true}
		}
	}

	matches, err := s.provider.Matches(ctx, code)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoAPIKey):
		return noKeyResult(code)
	case errors.Is(err, ErrUnauthorized):
		log.Error("Football API key rejected, serving sample fixtures", zap.String("code", code), zap.Error(err))
		return Result{Matches: Fallback(), Warning: WarnInvalidAPIKey, Unusable: true}
	default:
		log.Error("Failed to load fixtures, serving sample fixtures", zap.String("code", code), zap.Error(err))
		return Result{Matches: Fallback(), Warning: WarnUnavailable}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, code, matches); err != nil {
			log.Warn("Fixture cache write failed", zap.String("code", code), zap.Error(err))
		}
	}

	log.Info("Loaded live fixtures", zap.String("code", code), zap.Int("count", len(matches)))
	return Result{Matches: matches, Live: true}
}
