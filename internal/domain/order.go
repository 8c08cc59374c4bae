package domain

import "time"

// OrderStatus — статус заказа. Набор значений определяется сервером и не
// считается закрытым: неизвестные статусы передаются без изменений.
type OrderStatus string

const (
	// OrderStatusPending — заказ принят, но маршрут ещё не построен.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusSuccess — заказ собран, маршрут пройден.
	OrderStatusSuccess OrderStatus = "success"
	// OrderStatusFail — заказ не удалось собрать (например, не хватило стока).
	OrderStatusFail OrderStatus = "fail"
)

// Known сообщает, относится ли статус к значениям, известным клиенту.
// Используется только для оформления вывода, не для фильтрации.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusSuccess, OrderStatusFail:
		return true
	default:
		return false
	}
}

// OrderItem — одна позиция заказа. Контракт создания заказа адресует товары
// по имени, поэтому позиция хранит имя, а не идентификатор.
type OrderItem struct {
	ProductName string
	Quantity    int
}

// ValidateInvariants проверяет позицию перед отправкой.
func (i OrderItem) ValidateInvariants() []error {
	var errs []error
	if i.ProductName == "" {
		errs = append(errs, ErrItemNameRequired)
	}
	if i.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}
	return errs
}

// Order — заказ в том виде, в каком его отдаёт сервер. После создания клиент
// заказ не изменяет; статус только читается через опрос по идентификатору.
type Order struct {
	ID        int64
	Items     []OrderItem
	Status    OrderStatus
	CreatedAt time.Time
}
