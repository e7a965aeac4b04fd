package decorators

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

type weatherFetcher interface {
	Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService is a read-through cache in front of a fetcher. Cache
// failures are logged and never fail the lookup.
type CachedService struct {
	inner  weatherFetcher
	cache  cacheClient[models.WeatherRecord]
	logger zerolog.Logger
}

func NewCachedService(
	inner weatherFetcher,
	cache cacheClient[models.WeatherRecord],
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{inner: inner, cache: cache, logger: logger}
}

func CacheKey(query models.WeatherQuery) string {
	return fmt.Sprintf("weather:%s", strings.ToLower(query.Location()))
}

func (s *CachedService) Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	key := CacheKey(query)

	record, err := s.cache.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("key", key).
			Msg("cache hit")
		return record, nil
	}
	s.logger.Info().
		Ctx(ctx).
		Str("key", key).
		Err(err).
		Msg("cache miss")

	record, err = s.inner.Fetch(ctx, query)
	if err != nil {
		return models.WeatherRecord{}, err
	}

	if err := s.cache.Set(ctx, key, record); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return record, nil
}
