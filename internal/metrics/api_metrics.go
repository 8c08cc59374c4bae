package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы запроса для метки outcome.
const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"     // сервер доступен, но отклонил запрос
	OutcomeUnauthorized = "unauthorized" // токен недействителен
	OutcomeConnectivity = "connectivity" // транспортная ошибка или битый ответ
)

// APIMetrics содержит метрики обращений к Shopy API.
type APIMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	breakerOpened   prometheus.Counter
	sessionResets   prometheus.Counter
}

// NewAPIMetrics создаёт метрики в глобальном реестре Prometheus.
func NewAPIMetrics() *APIMetrics {
	return newAPIMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newAPIMetricsWithRegisterer(registerer prometheus.Registerer) *APIMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &APIMetrics{
		requestsTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopy_api_requests_total",
			Help: "Total number of Shopy API requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shopy_api_request_duration_seconds",
			Help:    "Duration of Shopy API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"operation"}),
		breakerOpened: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopy_api_breaker_opened_total",
			Help: "Total number of times the API circuit breaker opened",
		}),
		sessionResets: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopy_session_resets_total",
			Help: "Total number of sessions torn down after a rejected token",
		}),
	}
}

// ObserveRequest записывает исход и длительность одного запроса к API.
func (m *APIMetrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBreakerOpened увеличивает счётчик размыканий circuit breaker.
func (m *APIMetrics) RecordBreakerOpened() {
	m.breakerOpened.Inc()
}

// RecordSessionReset увеличивает счётчик сбросов сессии по 401.
func (m *APIMetrics) RecordSessionReset() {
	m.sessionResets.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
