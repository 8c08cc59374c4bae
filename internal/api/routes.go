package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopyhq/shopy/internal/domain"
)

const opRouteByOrder = "route_by_order"

// GetRouteByOrder возвращает маршрут исполнения заказа. Для несуществующего
// или ещё не обработанного заказа сервер отвечает ошибкой, которая
// транслируется в SyncError.
func (c *Client) GetRouteByOrder(ctx context.Context, orderID int64) (domain.Route, error) {
	var payload routePayload
	path := "/api/routes?orderId=" + strconv.FormatInt(orderID, 10)
	if err := c.do(ctx, opRouteByOrder, http.MethodGet, path, nil, &payload); err != nil {
		return domain.Route{}, err
	}
	return payload.toDomain(opRouteByOrder)
}

var _ domain.RouteGateway = (*Client)(nil)
