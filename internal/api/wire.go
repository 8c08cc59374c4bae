package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopyhq/shopy/internal/domain"
)

// flexID принимает идентификатор и числом, и строкой: сервер отдаёт id как
// число, локально все сравнения выполняются над строкой. Единая точка
// нормализации вместо разбросанных преобразований.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) int64() (int64, error) {
	return strconv.ParseInt(string(f), 10, 64)
}

// malformed оборачивает описание битого ответа в SyncError с общим
// сообщением о связи: частично типизированные значения дальше не идут.
func malformed(op, detail string) error {
	return &domain.SyncError{Op: op, Message: connectivityMessage, Err: fmt.Errorf("malformed response: %s", detail)}
}

type productPayload struct {
	ID       flexID        `json:"id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Quantity int           `json:"quantity"`
	Location *domain.Point `json:"location"`
}

func (p productPayload) toDomain(op string) (domain.Product, error) {
	if p.ID == "" {
		return domain.Product{}, malformed(op, "product id is missing")
	}
	if p.Name == "" {
		return domain.Product{}, malformed(op, "product name is missing")
	}
	if p.Location == nil {
		return domain.Product{}, malformed(op, "product location is missing")
	}
	return domain.Product{
		ID:       domain.ProductID(p.ID),
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
		Location: *p.Location,
	}, nil
}

type orderItemPayload struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

type orderPayload struct {
	ID        flexID             `json:"id"`
	Items     []orderItemPayload `json:"items"`
	Status    string             `json:"status"`
	CreatedAt string             `json:"createdAt"`
}

func (o orderPayload) toDomain(op string) (domain.Order, error) {
	id, err := o.ID.int64()
	if err != nil {
		return domain.Order{}, malformed(op, "order id is missing or not numeric")
	}
	if o.Status == "" {
		return domain.Order{}, malformed(op, "order status is missing")
	}

	order := domain.Order{
		ID:     id,
		Status: domain.OrderStatus(o.Status),
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	// Отметка времени опциональна; нераспознанный формат не считается ошибкой.
	if o.CreatedAt != "" {
		if ts, parseErr := time.Parse(time.RFC3339, o.CreatedAt); parseErr == nil {
			order.CreatedAt = ts
		}
	}
	return order, nil
}

type routePayload struct {
	OrderID          flexID  `json:"orderId"`
	Status           string  `json:"status"`
	VisitedLocations [][]int `json:"visitedLocations"`
}

func (r routePayload) toDomain(op string) (domain.Route, error) {
	id, err := r.OrderID.int64()
	if err != nil {
		return domain.Route{}, malformed(op, "route order id is missing or not numeric")
	}

	route := domain.Route{
		OrderID: id,
		Status:  domain.OrderStatus(r.Status),
	}
	for i, pair := range r.VisitedLocations {
		if len(pair) != 2 {
			return domain.Route{}, malformed(op, fmt.Sprintf("visitedLocations[%d] is not an [x,y] pair", i))
		}
		route.VisitedLocations = append(route.VisitedLocations, domain.Point{X: pair[0], Y: pair[1]})
	}
	return route, nil
}

type sessionPayload struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s sessionPayload) toDomain(op string) (domain.Session, error) {
	if s.Token == "" {
		return domain.Session{}, malformed(op, "token is missing")
	}
	if s.User == nil {
		return domain.Session{}, malformed(op, "user is missing")
	}
	return domain.Session{Token: s.Token, User: *s.User}, nil
}
