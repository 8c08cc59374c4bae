// Package gatewaytest содержит конфигурируемые заглушки шлюзов Shopy API
// для тестов компонентов состояния.
package gatewaytest

import (
	"context"

	"github.com/shopyhq/shopy/internal/domain"
)

// ProductGateway — заглушка domain.ProductGateway с подсчётом вызовов.
type ProductGateway struct {
	ListResult   []domain.Product
	ListErr      error
	GetResult    domain.Product
	GetErr       error
	CreateResult domain.Product
	CreateErr    error
	UpdateResult domain.Product
	UpdateErr    error
	DeleteErr    error

	ListCalls   int
	GetCalls    int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	LastDraft    domain.ProductDraft
	LastUpdateID domain.ProductID
	LastUpdate   domain.ProductUpdate
	LastDeleteID domain.ProductID
}

func (m *ProductGateway) ListProducts(context.Context) ([]domain.Product, error) {
	m.ListCalls++
	return m.ListResult, m.ListErr
}

func (m *ProductGateway) GetProduct(context.Context, domain.ProductID) (domain.Product, error) {
	m.GetCalls++
	return m.GetResult, m.GetErr
}

func (m *ProductGateway) CreateProduct(_ context.Context, draft domain.ProductDraft) (domain.Product, error) {
	m.CreateCalls++
	m.LastDraft = draft
	return m.CreateResult, m.CreateErr
}

func (m *ProductGateway) UpdateProduct(_ context.Context, id domain.ProductID, upd domain.ProductUpdate) (domain.Product, error) {
	m.UpdateCalls++
	m.LastUpdateID = id
	m.LastUpdate = upd
	return m.UpdateResult, m.UpdateErr
}

func (m *ProductGateway) DeleteProduct(_ context.Context, id domain.ProductID) error {
	m.DeleteCalls++
	m.LastDeleteID = id
	return m.DeleteErr
}

var _ domain.ProductGateway = (*ProductGateway)(nil)

// OrderGateway — заглушка domain.OrderGateway.
type OrderGateway struct {
	ListResult   []domain.Order
	ListErr      error
	CreateResult domain.Order
	CreateErr    error
	StatusResult domain.Order
	StatusErr    error

	ListCalls   int
	CreateCalls int
	StatusCalls int

	LastItems    []domain.OrderItem
	LastStatusID int64
}

func (m *OrderGateway) ListOrders(context.Context) ([]domain.Order, error) {
	m.ListCalls++
	return m.ListResult, m.ListErr
}

func (m *OrderGateway) CreateOrder(_ context.Context, items []domain.OrderItem) (domain.Order, error) {
	m.CreateCalls++
	m.LastItems = items
	return m.CreateResult, m.CreateErr
}

func (m *OrderGateway) GetOrderStatus(_ context.Context, orderID int64) (domain.Order, error) {
	m.StatusCalls++
	m.LastStatusID = orderID
	return m.StatusResult, m.StatusErr
}

var _ domain.OrderGateway = (*OrderGateway)(nil)

// RouteGateway — заглушка domain.RouteGateway.
type RouteGateway struct {
	Result domain.Route
	Err    error

	Calls  int
	LastID int64
}

func (m *RouteGateway) GetRouteByOrder(_ context.Context, orderID int64) (domain.Route, error) {
	m.Calls++
	m.LastID = orderID
	return m.Result, m.Err
}

var _ domain.RouteGateway = (*RouteGateway)(nil)

// AuthGateway — заглушка domain.AuthGateway.
type AuthGateway struct {
	LoginResult    domain.Session
	LoginErr       error
	RegisterResult domain.Session
	RegisterErr    error

	LoginCalls    int
	RegisterCalls int

	LastEmail        string
	LastRegistration domain.Registration
}

func (m *AuthGateway) Login(_ context.Context, email, _ string) (domain.Session, error) {
	m.LoginCalls++
	m.LastEmail = email
	return m.LoginResult, m.LoginErr
}

func (m *AuthGateway) Register(_ context.Context, reg domain.Registration) (domain.Session, error) {
	m.RegisterCalls++
	m.LastRegistration = reg
	return m.RegisterResult, m.RegisterErr
}

var _ domain.AuthGateway = (*AuthGateway)(nil)
