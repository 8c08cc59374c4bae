package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopyhq/shopy/internal/domain"
)

// Имена операций для метрик и сообщений об ошибках.
const (
	opListProducts  = "list_products"
	opGetProduct    = "get_product"
	opCreateProduct = "create_product"
	opUpdateProduct = "update_product"
	opDeleteProduct = "delete_product"
)

type createProductRequest struct {
	Name     string       `json:"name"`
	Price    float64      `json:"price"`
	Quantity int          `json:"quantity"`
	Location domain.Point `json:"location"`
}

type updateProductRequest struct {
	NewQuantity int          `json:"newQuantity"`
	NewPrice    float64      `json:"newPrice"`
	NewLocation domain.Point `json:"newLocation"`
}

// ListProducts возвращает полный список товаров склада.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var payload []productPayload
	if err := c.do(ctx, opListProducts, http.MethodGet, "/api/products", nil, &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload))
	for _, p := range payload {
		product, err := p.toDomain(opListProducts)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// GetProduct возвращает один товар по идентификатору.
func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var payload productPayload
	if err := c.do(ctx, opGetProduct, http.MethodGet, "/api/products/"+url.PathEscape(string(id)), nil, &payload); err != nil {
		return domain.Product{}, err
	}
	return payload.toDomain(opGetProduct)
}

// CreateProduct создаёт товар; идентификатор присваивает сервер.
func (c *Client) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	req := createProductRequest{
		Name:     draft.Name,
		Price:    draft.Price,
		Quantity: draft.Quantity,
		Location: draft.Location,
	}

	var payload productPayload
	if err := c.do(ctx, opCreateProduct, http.MethodPost, "/api/products", req, &payload); err != nil {
		return domain.Product{}, err
	}
	return payload.toDomain(opCreateProduct)
}

// UpdateProduct отправляет на сервер только изменяемые поля: количество,
// цену и координаты. Возвращает каноническую запись после обновления.
func (c *Client) UpdateProduct(ctx context.Context, id domain.ProductID, upd domain.ProductUpdate) (domain.Product, error) {
	req := updateProductRequest{
		NewQuantity: upd.NewQuantity,
		NewPrice:    upd.NewPrice,
		NewLocation: upd.NewLocation,
	}

	var payload productPayload
	if err := c.do(ctx, opUpdateProduct, http.MethodPut, "/api/products/"+url.PathEscape(string(id)), req, &payload); err != nil {
		return domain.Product{}, err
	}
	return payload.toDomain(opUpdateProduct)
}

// DeleteProduct удаляет товар.
func (c *Client) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	return c.do(ctx, opDeleteProduct, http.MethodDelete, "/api/products/"+url.PathEscape(string(id)), nil, nil)
}

var _ domain.ProductGateway = (*Client)(nil)
