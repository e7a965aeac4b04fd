package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const DefaultOpenWeatherMapURL = "https://api.openweathermap.org/data/2.5/weather"

// maxErrorBody bounds how much of a non-2xx body is read for the error envelope.
const maxErrorBody = 64 << 10

type apiResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

// apiErrorEnvelope is the body OpenWeatherMap sends with non-2xx responses.
// cod is a string on 404 and a number on 401, so it is kept raw.
type apiErrorEnvelope struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// ClientOpenWeatherMap fetches current weather from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client. An empty
// apiURL falls back to DefaultOpenWeatherMapURL.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	if apiURL == "" {
		apiURL = DefaultOpenWeatherMapURL
	}
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

func (s *ClientOpenWeatherMap) buildURL(query models.WeatherQuery) (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	values := u.Query()
	values.Set("q", query.Location())
	values.Set("units", "metric")
	values.Set("appid", s.APIKey)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// Fetch performs one blocking lookup. Errors are *NetworkError, *APIError,
// *DecodeError or *MissingDataError.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	if s.APIKey == "" {
		return models.WeatherRecord{}, ErrMissingAPIKey
	}

	start := time.Now()
	reqURL, err := s.buildURL(query)
	if err != nil {
		return models.WeatherRecord{}, err
	}

	s.logger.Debug().
		Str("city", query.City).
		Str("country_code", query.CountryCode).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", query.City).
			Msg("failed to create HTTP request")
		return models.WeatherRecord{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		err = redactError(err)
		s.logger.Error().
			Err(err).
			Str("city", query.City).
			Msg("error sending HTTP request to OpenWeatherMap")
		return models.WeatherRecord{}, &NetworkError{Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", query.City).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := parseAPIError(resp)
		s.logger.Warn().
			Str("city", query.City).
			Int("status", apiErr.StatusCode).
			Str("message", apiErr.Message).
			Msg("OpenWeatherMap API returned non-2xx status")
		return models.WeatherRecord{}, apiErr
	}

	record, err := decodeRecord(resp.Body)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", query.City).
			Msg("failed to decode OpenWeatherMap response")
		return models.WeatherRecord{}, err
	}

	s.logger.Info().
		Str("city", query.City).
		Str("location", record.Location).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return record, nil
}

func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope apiErrorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope); err == nil &&
		envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}

func decodeRecord(body io.Reader) (models.WeatherRecord, error) {
	var raw apiResponse
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return models.WeatherRecord{}, &DecodeError{Err: err}
	}
	if raw.Main == nil {
		return models.WeatherRecord{}, &DecodeError{Err: errors.New(`response has no "main" object`)}
	}
	if raw.Wind == nil {
		return models.WeatherRecord{}, &DecodeError{Err: errors.New(`response has no "wind" object`)}
	}
	if len(raw.Weather) == 0 {
		return models.WeatherRecord{}, &MissingDataError{Field: "weather"}
	}

	return models.WeatherRecord{
		Description:  raw.Weather[0].Description,
		TemperatureC: raw.Main.Temp,
		HumidityPct:  raw.Main.Humidity,
		PressureHPa:  raw.Main.Pressure,
		WindSpeedMS:  raw.Wind.Speed,
		Location:     raw.Name,
	}, nil
}
