package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-cli/internal/app"
	"github.com/Nazarious-ucu/weather-cli/internal/config"
	"github.com/Nazarious-ucu/weather-cli/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-cli/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	logOpts := logger.Options{
		FilePath:    cfg.Log.Path,
		ServiceName: "weather-cli",
		Level:       cfg.Log.Level,
	}
	if cfg.Log.Console {
		logOpts.Console = os.Stderr
	}
	l, err := logger.NewLogger(logOpts)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(*cfg, l, metrics.NewMetrics(), app.IO{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application failed to run")
		stop()
		os.Exit(1)
	}
}
