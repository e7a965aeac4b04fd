package app_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-cli/internal/app"
	"github.com/Nazarious-ucu/weather-cli/internal/config"
	"github.com/Nazarious-ucu/weather-cli/internal/services/metrics"
)

func newWeatherServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "London,GB" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"weather":[{"description":"clear sky"}],`+
			`"main":{"temp":15.3,"humidity":60,"pressure":1012},"wind":{"speed":3.4},"name":"London"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, url string) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.OpenWeatherMap.APIKey = "key"
	cfg.OpenWeatherMap.URL = url
	cfg.OpenWeatherMap.Timeout = 5
	cfg.Breaker.TimeInterval = 30
	cfg.Breaker.TimeTimeOut = 10
	cfg.Breaker.RepeatNumber = 5
	cfg.Log.HTTPPath = filepath.Join(t.TempDir(), "http.log")
	cfg.NoColor = true
	return cfg
}

func TestApp_Start(t *testing.T) {
	srv := newWeatherServer(t)
	cfg := testConfig(t, srv.URL)
	met := metrics.NewMetrics()

	var out, errOut bytes.Buffer
	a := app.New(cfg, zerolog.Nop(), met, app.IO{
		In:     strings.NewReader("Atlantis\nXX\nyes\nLondon\nGB\nno\n"),
		Out:    &out,
		ErrOut: &errOut,
	})

	require.NoError(t, a.Start(context.Background()))

	assert.Contains(t, out.String(), "Weather in London: clear sky")
	assert.Contains(t, out.String(), "Temperature: 15.3C")
	assert.Contains(t, errOut.String(), "city not found")

	assert.InDelta(t, 1, testutil.ToFloat64(met.LookupsTotal.WithLabelValues("none")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(met.LookupsTotal.WithLabelValues("api")), 0)
}

func TestApp_Start_UnreachableRedisFallsBack(t *testing.T) {
	srv := newWeatherServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = "1"

	var out bytes.Buffer
	a := app.New(cfg, zerolog.Nop(), metrics.NewMetrics(), app.IO{
		In:     strings.NewReader("London\nGB\nno\n"),
		Out:    &out,
		ErrOut: io.Discard,
	})

	require.NoError(t, a.Start(context.Background()))
	assert.Contains(t, out.String(), "Weather in London")
}

func TestApp_Start_EmptyHTTPLogPathWritesNoFiles(t *testing.T) {
	srv := newWeatherServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.Log.HTTPPath = ""

	workDir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	var out bytes.Buffer
	a := app.New(cfg, zerolog.Nop(), metrics.NewMetrics(), app.IO{
		In:     strings.NewReader("London\nGB\nno\n"),
		Out:    &out,
		ErrOut: io.Discard,
	})

	require.NoError(t, a.Start(context.Background()))
	assert.Contains(t, out.String(), "Weather in London")

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_Start_CancelledContext(t *testing.T) {
	srv := newWeatherServer(t)
	cfg := testConfig(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := app.New(cfg, zerolog.Nop(), metrics.NewMetrics(), app.IO{
		In:     strings.NewReader("London\nGB\nno\n"),
		Out:    io.Discard,
		ErrOut: io.Discard,
	})

	assert.NoError(t, a.Start(ctx))
}

func TestApp_Start_CancelWhileWaitingForInput(t *testing.T) {
	srv := newWeatherServer(t)
	cfg := testConfig(t, srv.URL)

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	a := app.New(cfg, zerolog.Nop(), metrics.NewMetrics(), app.IO{
		In:     pr,
		Out:    io.Discard,
		ErrOut: io.Discard,
	})

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- a.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start kept waiting for input after the context was cancelled")
	}
}
