package weather

import (
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("openweathermap api key is not configured")

// NetworkError reports a transport failure: DNS, refused connection, timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a 2xx body that does not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingDataError reports a decoded response with an empty required list.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing data: response has no %q entries", e.Field)
}

// APIError carries a non-2xx status and the message from the {cod, message} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsClientError is true for 4xx responses: bad city, bad key.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Kind classifies err for metrics labels and logs.
func Kind(err error) string {
	var (
		netErr     *NetworkError
		decodeErr  *DecodeError
		missingErr *MissingDataError
		apiErr     *APIError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &missingErr):
		return "missing_data"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "other"
	}
}
