package weather

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

type client interface {
	Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type lookupRecorder interface {
	ObserveLookup(result string, duration time.Duration)
}

// Service is the single lookup entry point used by the console loop.
type Service struct {
	logger  zerolog.Logger
	client  client
	metrics lookupRecorder
}

func NewService(logger zerolog.Logger, cl client, metrics lookupRecorder) *Service {
	return &Service{logger: logger, client: cl, metrics: metrics}
}

func (s *Service) Lookup(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	start := time.Now()

	s.logger.Info().
		Ctx(ctx).
		Str("city", query.City).
		Str("country_code", query.CountryCode).
		Msg("looking up weather")

	record, err := s.client.Fetch(ctx, query)
	kind := Kind(err)
	if s.metrics != nil {
		s.metrics.ObserveLookup(kind, time.Since(start))
	}
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", query.City).
			Str("error_kind", kind).
			Err(err).
			Msg("lookup failed")
		return models.WeatherRecord{}, err
	}

	s.logger.Info().
		Ctx(ctx).
		Str("location", record.Location).
		Msg("lookup succeeded")
	return record, nil
}
