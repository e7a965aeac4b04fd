package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-cli/internal/config"
	"github.com/Nazarious-ucu/weather-cli/internal/console"
	"github.com/Nazarious-ucu/weather-cli/internal/display"
	"github.com/Nazarious-ucu/weather-cli/internal/models"
	"github.com/Nazarious-ucu/weather-cli/internal/services/cache"
	loggerT "github.com/Nazarious-ucu/weather-cli/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-cli/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/weather-cli/internal/services/weather"
	"github.com/Nazarious-ucu/weather-cli/internal/services/weather/decorators"
	fLogger "github.com/Nazarious-ucu/weather-cli/pkg/logger"
)

const (
	shutdownTimeout = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

type weatherFetcher interface {
	Fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error)
}

// IO is the terminal the console talks to.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// ServiceContainer holds initialized dependencies.
type ServiceContainer struct {
	WeatherService *serviceWeather.Service
	Console        *console.Console

	MetricsSrv  *http.Server
	RedisClient *redis.Client
	fileLogger  *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
	io  IO
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics, terminal IO) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
		io:  terminal,
	}
}

// Start wires the services and runs the console until the user quits.
func (a *App) Start(ctx context.Context) error {
	srvContainer := a.init(ctx)
	defer a.Shutdown(srvContainer)

	if srvContainer.MetricsSrv != nil {
		go func() {
			a.l.Info().Str("address", srvContainer.MetricsSrv.Addr).Msg("metrics server running")
			if err := srvContainer.MetricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.l.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	a.l.Info().Msg("weather console started")
	err := srvContainer.Console.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.l.Error().Err(err).Msg("console stopped with error")
		return err
	}
	a.l.Info().Msg("weather console stopped")
	return nil
}

// Shutdown stops the metrics server, closes redis and syncs the HTTP logger.
func (a *App) Shutdown(srvContainer ServiceContainer) {
	if srvContainer.MetricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srvContainer.MetricsSrv.Shutdown(ctx); err != nil {
			a.l.Error().Err(err).Msg("failed to shutdown metrics server")
		}
	}

	if srvContainer.RedisClient != nil {
		if err := srvContainer.RedisClient.Close(); err != nil {
			a.l.Error().Err(err).Msg("failed to close redis client")
		}
	}

	if srvContainer.fileLogger != nil {
		if err := srvContainer.fileLogger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		}
	}
}

// init sets up logging, caching, metrics and the console without starting them.
func (a *App) init(ctx context.Context) ServiceContainer {
	var srvContainer ServiceContainer

	// HTTP client logging
	var transport http.RoundTripper = http.DefaultTransport
	if a.cfg.Log.HTTPPath != "" {
		fileLogger, err := fLogger.NewFileLogger(a.cfg.Log.HTTPPath)
		if err != nil {
			a.l.Error().Err(err).Msg("failed to create HTTP file logger, request logging disabled")
		} else {
			srvContainer.fileLogger = fileLogger
			transport = loggerT.NewRoundTripper(fileLogger, http.DefaultTransport)
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: a.cfg.HTTPTimeout()}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	openWeather := serviceWeather.NewBreakerClient("OpenWeather", breakerCfg,
		serviceWeather.NewClientOpenWeatherMap(
			a.cfg.OpenWeatherMap.APIKey,
			a.cfg.OpenWeatherMap.URL,
			httpClient,
			a.l,
		),
	)

	var fetcher weatherFetcher = openWeather

	if a.cfg.Redis.Enabled {
		redisClient := newRedisConnection(a.cfg.RedisAddress(), a.cfg.Redis.DbType)
		redisCache := cache.NewRedisClient[models.WeatherRecord](redisClient, a.l, a.cfg.CacheTTL())

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			a.l.Warn().Err(err).Str("address", a.cfg.RedisAddress()).Msg("redis unreachable, running without cache")
			_ = redisClient.Close()
		} else {
			srvContainer.RedisClient = redisClient
			fetcher = decorators.NewCachedService(
				openWeather,
				cache.NewMetricsDecorator[models.WeatherRecord](redisCache, metricsSvc.NewPromCollector(a.m.Registry)),
				a.l,
			)
		}
	}

	srvContainer.WeatherService = serviceWeather.NewService(a.l, fetcher, a.m)

	// color.NoColor is set by fatih/color when stdout is not a terminal or NO_COLOR is exported.
	painter := display.NewPainter(!a.cfg.NoColor && !color.NoColor)
	srvContainer.Console = console.New(a.io.In, a.io.Out, a.io.ErrOut, srvContainer.WeatherService, painter, a.l)

	if a.cfg.MetricsAddr != "" {
		srvContainer.MetricsSrv = a.newMetricsServer()
	}

	return srvContainer
}

func (a *App) newMetricsServer() *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(a.m.Handler()))

	return &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           router,
		ReadHeaderTimeout: shutdownTimeout,
	}
}

func newRedisConnection(connString string, dbType int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: connString, DB: dbType})
}
