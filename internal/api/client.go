package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/shopyhq/shopy/internal/domain"
	"github.com/shopyhq/shopy/internal/metrics"
)

const (
	headerRequestID = "X-Request-Id"

	// Общее сообщение для транспортных сбоев и битых ответов: клиент не
	// различает таймаут и отказ соединения.
	connectivityMessage = "failed to reach the server, please check your connection"

	defaultHTTPTimeout = 15 * time.Second
)

// Client — REST-фасад Shopy API: по одной функции на операцию сервера,
// чистое отображение запрос/ответ без бизнес-логики. Все вызовы идут через
// circuit breaker; повторов фасад не делает.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Entry
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.APIMetrics

	token          func() string
	onUnauthorized func()
}

// Option настраивает клиент при создании.
type Option func(*Client)

// WithHTTPClient подменяет транспорт (таймауты задаёт вызывающий).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger задаёт логгер фасада.
func WithLogger(l *log.Entry) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics включает запись метрик запросов.
func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTokenSource задаёт источник bearer-токена; пустой токен не отправляется.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithUnauthorizedHandler задаёт обработчик ответа 401: вызывается до того,
// как ошибка вернётся вызывающему (сброс сессии).
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient конструирует фасад для API по адресу baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:  log.New().WithField("component", "api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "shopy-api",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
			if to == gobreaker.StateOpen && c.metrics != nil {
				c.metrics.RecordBreakerOpened()
			}
		},
	})

	return c
}

// BreakerState возвращает текущее состояние circuit breaker.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

type httpResult struct {
	status int
	body   []byte
}

// do выполняет один запрос к API, записывает метрики и раскладывает
// JSON-ответ в out (если out != nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	started := time.Now()
	err := c.call(ctx, op, method, path, body, out)
	if c.metrics != nil {
		c.metrics.ObserveRequest(op, outcomeOf(err), time.Since(started))
	}
	return err
}

func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.SyncError{Op: op, Message: connectivityMessage, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.SyncError{Op: op, Message: connectivityMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, doErr := c.httpc.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		return &httpResult{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"operation": op,
			"path":      path,
		}).Warn("запрос к API не прошёл")
		return &domain.SyncError{Op: op, Message: connectivityMessage, Err: err}
	}

	result := res.(*httpResult)
	if result.status == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if c.metrics != nil {
			c.metrics.RecordSessionReset()
		}
		return &domain.SessionError{Message: "authentication rejected, please sign in again"}
	}
	if result.status < http.StatusOK || result.status >= http.StatusMultipleChoices {
		return domain.NewSyncError(op, serverMessage(result.body, result.status))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.body, out); err != nil {
		return &domain.SyncError{Op: op, Message: connectivityMessage, Err: err}
	}
	return nil
}

// serverMessage извлекает человекочитаемое сообщение из тела ошибки сервера.
func serverMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return fmt.Sprintf("request rejected with status %d", status)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case domain.IsSession(err):
		return metrics.OutcomeUnauthorized
	case domain.IsSync(err):
		var se *domain.SyncError
		if errors.As(err, &se) && se.Err == nil {
			return metrics.OutcomeRejected
		}
		return metrics.OutcomeConnectivity
	default:
		return metrics.OutcomeConnectivity
	}
}
