// Package replay хранит состояние экрана проверки заказа: статус и маршрут,
// полученные по введённому пользователем номеру заказа.
package replay

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shopyhq/shopy/internal/domain"
)

// Replay держит последнюю проверенную пару (статус, маршрут). Пара всегда
// согласована: либо обе части относятся к одному успешному запросу, либо
// обе пусты. Частичный результат не сохраняется.
type Replay struct {
	mu     sync.RWMutex
	orders domain.OrderGateway
	routes domain.RouteGateway

	loading bool
	checked bool
	status  domain.OrderStatus
	route   domain.Route
}

// New конструирует проверку заказов поверх шлюзов заказов и маршрутов.
func New(orders domain.OrderGateway, routes domain.RouteGateway) *Replay {
	return &Replay{orders: orders, routes: routes}
}

// ParseOrderID разбирает введённый пользователем номер заказа. Принимаются
// только положительные целые в десятичной записи.
func ParseOrderID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("orderId", "order number is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("orderId", "order number must be a positive integer")
	}
	return id, nil
}

// Loading сообщает, выполняется ли проверка прямо сейчас.
func (r *Replay) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Status возвращает статус последнего проверенного заказа.
func (r *Replay) Status() (domain.OrderStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status, r.checked
}

// Route возвращает маршрут последнего проверенного заказа.
func (r *Replay) Route() (domain.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.route, r.checked
}

// Clear сбрасывает сохранённую пару.
func (r *Replay) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checked = false
	r.status = ""
	r.route = domain.Route{}
}

// Check проверяет заказ по введённому номеру: сначала статус, затем маршрут.
// До сети ввод валидируется; при любой ошибке любая из двух частей считается
// недействительной и пара очищается целиком. Повторная проверка замещает
// предыдущий результат.
func (r *Replay) Check(ctx context.Context, raw string) error {
	id, err := ParseOrderID(raw)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.loading = true
	r.checked = false
	r.status = ""
	r.route = domain.Route{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	order, err := r.orders.GetOrderStatus(ctx, id)
	if err != nil {
		return err
	}
	route, err := r.routes.GetRouteByOrder(ctx, id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.checked = true
	r.status = order.Status
	r.route = route
	return nil
}

// CheckStatus запрашивает только статус заказа, не трогая сохранённую пару.
// Используется списком заказов для точечного обновления одной строки.
func (r *Replay) CheckStatus(ctx context.Context, raw string) (domain.OrderStatus, error) {
	id, err := ParseOrderID(raw)
	if err != nil {
		return "", err
	}
	order, err := r.orders.GetOrderStatus(ctx, id)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}
