package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shopyhq/shopy/internal/app"
	"github.com/shopyhq/shopy/internal/version"
)

const (
	envAPIBaseURL  = "SHOPY_API_URL"
	envMetricsAddr = "SHOPY_METRICS_ADDR"
	envSessionFile = "SHOPY_SESSION_FILE"
	envHTTPTimeout = "SHOPY_HTTP_TIMEOUT"
)

// envLookup абстрагирует os.LookupEnv для тестов.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования клиента.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию, позволяя переопределить значения
// через переменные окружения. Некорректные значения не прерывают запуск, а
// оставляют значение по умолчанию с предупреждением.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookup(envAPIBaseURL); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cfg.APIBaseURL = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, keeping default", envAPIBaseURL))
		}
	}
	if v, ok := lookup(envMetricsAddr); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cfg.MetricsAddr = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, keeping default", envMetricsAddr))
		}
	}
	if v, ok := lookup(envSessionFile); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cfg.SessionFile = trimmed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty, keeping default", envSessionFile))
		}
	}
	if v, ok := lookup(envHTTPTimeout); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s must be a positive duration, keeping default", envHTTPTimeout))
		} else {
			cfg.HTTPTimeout = d
		}
	}

	return cfg, warnings
}

func main() {
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_url":      cfg.APIBaseURL,
		"metrics_addr": cfg.MetricsAddr,
		"version":      version.GetVersion(),
	}).Info("запускаем клиент Shopy")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("клиент завершился с ошибкой")
	}

	log.Info("клиент Shopy остановлен")
}
