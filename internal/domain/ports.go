package domain

import "context"

// ProductGateway описывает операции сервера над товарами.
type ProductGateway interface {
	// ListProducts возвращает полный список товаров.
	ListProducts(ctx context.Context) ([]Product, error)
	// GetProduct возвращает товар по идентификатору.
	GetProduct(ctx context.Context, id ProductID) (Product, error)
	// CreateProduct создаёт товар; идентификатор присваивает сервер.
	CreateProduct(ctx context.Context, draft ProductDraft) (Product, error)
	// UpdateProduct изменяет количество, цену и координаты; возвращает каноническую запись.
	UpdateProduct(ctx context.Context, id ProductID, upd ProductUpdate) (Product, error)
	// DeleteProduct удаляет товар.
	DeleteProduct(ctx context.Context, id ProductID) error
}

// OrderGateway описывает операции сервера над заказами.
type OrderGateway interface {
	// ListOrders возвращает заказы текущего пользователя.
	ListOrders(ctx context.Context) ([]Order, error)
	// CreateOrder размещает заказ из собранных позиций.
	CreateOrder(ctx context.Context, items []OrderItem) (Order, error)
	// GetOrderStatus возвращает заказ с авторитетным статусом.
	GetOrderStatus(ctx context.Context, orderID int64) (Order, error)
}

// RouteGateway описывает доступ к маршрутам исполнения заказов.
type RouteGateway interface {
	// GetRouteByOrder возвращает маршрут заказа. На заказ приходится не более
	// одного маршрута.
	GetRouteByOrder(ctx context.Context, orderID int64) (Route, error)
}

// AuthGateway описывает операции аутентификации.
type AuthGateway interface {
	// Login обменивает учётные данные на сессию.
	Login(ctx context.Context, email, password string) (Session, error)
	// Register создаёт пользователя и сразу возвращает сессию.
	Register(ctx context.Context, reg Registration) (Session, error)
}

// SessionStore — персистентное хранилище сессии между запусками
// (аналог localStorage браузера).
type SessionStore interface {
	// Load возвращает сохранённую сессию; отсутствие сессии — пустая Session без ошибки.
	Load() (Session, error)
	// Save перезаписывает сохранённую сессию.
	Save(s Session) error
	// Clear удаляет сохранённую сессию; повторный вызов не ошибка.
	Clear() error
}
