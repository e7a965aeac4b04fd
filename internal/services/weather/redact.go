package weather

import (
	"errors"
	"net/url"
)

const apiKeyParam = "appid"

// RedactedURL returns u with the appid query parameter masked.
func RedactedURL(u *url.URL) string {
	clone := *u
	q := clone.Query()
	if q.Has(apiKeyParam) {
		q.Set(apiKeyParam, "***")
		clone.RawQuery = q.Encode()
	}
	return clone.String()
}

// redactError masks the API key in the URL a *url.Error carries.
func redactError(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "<redacted>", Err: uerr.Err}
	}
	return &url.Error{Op: uerr.Op, URL: RedactedURL(u), Err: uerr.Err}
}
