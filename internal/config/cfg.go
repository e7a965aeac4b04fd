package config

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type OpenWeatherMap struct {
	APIKey  string `envconfig:"OPEN_WEATHER_MAP_API_KEY" required:"true"`
	URL     string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	Timeout int    `envconfig:"HTTP_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"10"`
}

const (
	logsDir     = "weather-cli"
	appLogFile  = "weather-cli.log"
	httpLogFile = "weather-cli-http.log"
	logsPathEnv = "LOGS_PATH"
	httpPathEnv = "HTTP_LOGS_PATH"
)

// Log paths default to the user cache directory. Setting a path to the empty
// string turns that log off.
type Log struct {
	Path     string `envconfig:"LOGS_PATH"`
	HTTPPath string `envconfig:"HTTP_LOGS_PATH"`
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Console  bool   `envconfig:"LOG_CONSOLE" default:"false"`
}

type Config struct {
	OpenWeatherMap OpenWeatherMap
	Breaker        Breaker
	Redis          Redis
	Log            Log

	// MetricsAddr enables the /metrics endpoint when set, e.g. ":9091".
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	NoColor     bool   `envconfig:"WEATHER_NO_COLOR" default:"false"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Log.setDefaultPaths()
	return &cfg, nil
}

func (l *Log) setDefaultPaths() {
	dir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	if _, ok := os.LookupEnv(logsPathEnv); !ok {
		l.Path = filepath.Join(dir, logsDir, appLogFile)
	}
	if _, ok := os.LookupEnv(httpPathEnv); !ok {
		l.HTTPPath = filepath.Join(dir, logsDir, httpLogFile)
	}
}

func (c Config) RedisAddress() string {
	return net.JoinHostPort(c.Redis.Host, c.Redis.Port)
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.OpenWeatherMap.Timeout) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.LiveTime) * time.Minute
}
