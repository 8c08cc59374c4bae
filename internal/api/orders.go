package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopyhq/shopy/internal/domain"
)

const (
	opListOrders  = "list_orders"
	opCreateOrder = "create_order"
	opOrderStatus = "order_status"
)

type placeOrderRequest struct {
	Items []orderItemPayload `json:"items"`
}

// ListOrders возвращает заказы текущего пользователя.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var payload []orderPayload
	if err := c.do(ctx, opListOrders, http.MethodGet, "/api/orders", nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(payload))
	for _, o := range payload {
		order, err := o.toDomain(opListOrders)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// CreateOrder размещает заказ. Контракт сервера адресует позиции по имени
// товара, а не по идентификатору.
func (c *Client) CreateOrder(ctx context.Context, items []domain.OrderItem) (domain.Order, error) {
	req := placeOrderRequest{Items: make([]orderItemPayload, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, orderItemPayload{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}

	var payload orderPayload
	if err := c.do(ctx, opCreateOrder, http.MethodPost, "/api/orders", req, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain(opCreateOrder)
}

// GetOrderStatus возвращает заказ с авторитетным статусом.
func (c *Client) GetOrderStatus(ctx context.Context, orderID int64) (domain.Order, error) {
	var payload orderPayload
	if err := c.do(ctx, opOrderStatus, http.MethodGet, "/api/orders/"+strconv.FormatInt(orderID, 10), nil, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain(opOrderStatus)
}

var _ domain.OrderGateway = (*Client)(nil)
