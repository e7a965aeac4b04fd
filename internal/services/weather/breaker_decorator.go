package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient guards a fetcher with a circuit breaker. 4xx API errors do
// not count as failures: the upstream answered, the query was wrong.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: isBreakerSuccess,
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsClientError()
}

func (b *BreakerClient) Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, query)
	})
	if err != nil {
		return models.WeatherRecord{},
			fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.WeatherRecord)
	if !ok {
		return models.WeatherRecord{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}

func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}
