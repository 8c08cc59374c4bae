// Package compose хранит экранное состояние сборки заказа: строки
// (товар, количество) до отправки на сервер.
package compose

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopyhq/shopy/internal/domain"
)

// Row — одна строка составляемого заказа. Пустой ProductID означает, что
// товар ещё не выбран.
type Row struct {
	ProductID domain.ProductID
	Quantity  int
}

// ProductSource отдаёт текущий локальный список товаров; им владеет
// синхронизатор.
type ProductSource interface {
	Products() []domain.Product
}

// Composition — состояние одного экрана сборки заказа. Начинается с одной
// пустой строки и всегда держит хотя бы одну. Инварианты заказа проверяются
// до любого сетевого вызова.
type Composition struct {
	mu         sync.Mutex
	orders     domain.OrderGateway
	products   ProductSource
	rows       []Row
	submitting bool
}

// New конструирует сборку заказа поверх шлюза заказов и источника товаров.
func New(orders domain.OrderGateway, products ProductSource) *Composition {
	return &Composition{
		orders:   orders,
		products: products,
		rows:     []Row{{Quantity: 1}},
	}
}

// Rows возвращает копию текущих строк.
func (c *Composition) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Submitting сообщает, отправляется ли заказ прямо сейчас.
func (c *Composition) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// AddRow добавляет пустую строку в конец.
func (c *Composition) AddRow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, Row{Quantity: 1})
}

// RemoveRow удаляет строку по индексу. Последняя оставшаяся строка не
// удаляется; индекс вне диапазона игнорируется.
func (c *Composition) RemoveRow(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.rows) <= 1 || index < 0 || index >= len(c.rows) {
		return
	}
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
}

// SetRowProduct выбирает товар в строке index.
func (c *Composition) SetRowProduct(index int, id domain.ProductID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.rows) {
		return
	}
	c.rows[index].ProductID = id
}

// SetRowQuantity задаёт количество в строке index. Верхней границы на
// клиенте нет, её проверяет сервер.
func (c *Composition) SetRowQuantity(index int, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.rows) {
		return
	}
	c.rows[index].Quantity = n
}

// SelectedProductIDs возвращает набор выбранных товаров по всем строкам.
// Экран сборки обязан исключать их из меню выбора остальных строк: сервер
// не сливает количества двух строк одного товара в одном заказе.
func (c *Composition) SelectedProductIDs() []domain.ProductID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]domain.ProductID, 0, len(c.rows))
	for _, row := range c.rows {
		if row.ProductID != "" {
			ids = append(ids, row.ProductID)
		}
	}
	return ids
}

// Reset возвращает сборку к исходному состоянию: одна пустая строка.
func (c *Composition) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = []Row{{Quantity: 1}}
}

// Submit проверяет строки, разрешает выбранные товары в имена по локальному
// списку и отправляет заказ. Ошибки валидации не доходят до сети. При успехе
// сборка сбрасывается к одной пустой строке и вызывающему следует обновить
// список заказов; при ошибке строки сохраняются для исправления.
func (c *Composition) Submit(ctx context.Context) (domain.Order, error) {
	c.mu.Lock()
	rows := make([]Row, len(c.rows))
	copy(rows, c.rows)
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	items, err := c.resolve(rows)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := c.orders.CreateOrder(ctx, items)
	if err != nil {
		return domain.Order{}, err
	}

	c.Reset()
	return order, nil
}

// resolve превращает строки в позиции заказа, проверяя инварианты:
// товар выбран в каждой строке, выбор уникален, количество положительно,
// выбранный товар всё ещё существует в локальном списке.
func (c *Composition) resolve(rows []Row) ([]domain.OrderItem, error) {
	byID := make(map[domain.ProductID]domain.Product)
	for _, p := range c.products.Products() {
		byID[p.ID] = p
	}

	seen := make(map[domain.ProductID]int)
	items := make([]domain.OrderItem, 0, len(rows))
	for i, row := range rows {
		field := fmt.Sprintf("rows[%d]", i)
		if row.ProductID == "" {
			return nil, domain.NewValidationError(field+".product", "select a product for every item")
		}
		if prev, dup := seen[row.ProductID]; dup {
			return nil, domain.NewValidationError(field+".product",
				fmt.Sprintf("product already selected in row %d", prev))
		}
		seen[row.ProductID] = i

		if row.Quantity <= 0 {
			return nil, domain.NewValidationError(field+".quantity", "quantity must be a positive integer")
		}

		product, ok := byID[row.ProductID]
		if !ok {
			// Товар удалили, пока заказ собирался.
			return nil, domain.NewValidationError(field+".product", "selected product no longer exists")
		}
		items = append(items, domain.OrderItem{ProductName: product.Name, Quantity: row.Quantity})
	}
	return items, nil
}
