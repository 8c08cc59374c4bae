// Package app собирает клиент Shopy из компонентов: сессия, шлюз API,
// синхронизатор склада, сборка заказа, проверка маршрутов, метрики.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/shopyhq/shopy/internal/api"
	"github.com/shopyhq/shopy/internal/compose"
	healthcheck "github.com/shopyhq/shopy/internal/health"
	"github.com/shopyhq/shopy/internal/metrics"
	"github.com/shopyhq/shopy/internal/replay"
	"github.com/shopyhq/shopy/internal/session"
	"github.com/shopyhq/shopy/internal/version"
	"github.com/shopyhq/shopy/internal/warehouse"
)

// Config описывает настройки запуска клиента.
type Config struct {
	APIBaseURL  string
	MetricsAddr string
	SessionFile string
	HTTPTimeout time.Duration
}

// DefaultConfig возвращает адрес локального Shopy API и путь файла сессии
// в домашнем каталоге пользователя.
func DefaultConfig() Config {
	sessionFile := ".shopy-session.json"
	if home, err := os.UserHomeDir(); err == nil {
		sessionFile = filepath.Join(home, ".shopy", "session.json")
	}
	return Config{
		APIBaseURL:  "http://localhost:8080",
		MetricsAddr: ":9090",
		SessionFile: sessionFile,
		HTTPTimeout: 15 * time.Second,
	}
}

// Run собирает компоненты и крутит интерактивное меню до выхода пользователя
// или отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	store := session.NewFileStore(cfg.SessionFile)
	sessions := session.NewManager(store, logger)
	if err := sessions.Init(); err != nil {
		return err
	}

	apiMetrics := metrics.NewAPIMetrics()
	client := api.NewClient(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(logger),
		api.WithMetrics(apiMetrics),
		api.WithTokenSource(sessions.Token),
		api.WithUnauthorizedHandler(func() { _ = sessions.Clear() }),
	)

	products := warehouse.NewSynchronizer(client)
	order := compose.New(client, products)
	checks := replay.New(client, client)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("api_breaker", breakerChecker(client))
	healthHandler.RegisterChecker("session_store", healthcheck.NewErrorChecker("session_store", func() error {
		_, err := store.Load()
		return err
	}))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	defer shutdownHTTP(metricsSrv, logger)

	menu := NewMenu(os.Stdin, os.Stdout, logger, MenuDeps{
		Auth:     client,
		Catalog:  client,
		Sessions: sessions,
		Products: products,
		Orders:   client,
		Order:    order,
		Checks:   checks,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- menu.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// breakerChecker отражает состояние предохранителя API в health-статусе:
// разомкнутый предохранитель деградирует клиент, но не делает его мёртвым.
func breakerChecker(client *api.Client) healthcheck.Checker {
	return healthcheck.NewStatusChecker("api_breaker", func() (healthcheck.Status, string) {
		switch state := client.BreakerState(); state {
		case gobreaker.StateOpen:
			return healthcheck.StatusDegraded, "circuit breaker open"
		case gobreaker.StateHalfOpen:
			return healthcheck.StatusDegraded, "circuit breaker half-open"
		default:
			return healthcheck.StatusHealthy, ""
		}
	})
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus
// вместе с health-эндпойнтами.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
