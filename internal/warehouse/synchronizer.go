package warehouse

import (
	"context"
	"sync"

	"github.com/shopyhq/shopy/internal/domain"
)

// Synchronizer владеет авторитетной локальной копией списка товаров и держит
// её согласованной с сервером. Локальное состояние изменяется только по
// подтверждённому успеху; единственное исключение — Refresh, который при
// ошибке очищает список, чтобы не показывать непроверенные данные.
//
// Операции между собой не сериализуются: если две мутации одного товара идут
// одновременно, побеждает последний пришедший ответ. Это принятое
// ограничение, а не гарантия — форма, ведущая одну запись, обязана сама
// блокировать повторную отправку.
type Synchronizer struct {
	mu      sync.RWMutex
	gateway domain.ProductGateway

	products []domain.Product
	loading  bool
	lastErr  string
}

// NewSynchronizer конструирует синхронизатор поверх шлюза товаров.
func NewSynchronizer(gateway domain.ProductGateway) *Synchronizer {
	return &Synchronizer{gateway: gateway}
}

// Products возвращает копию локального списка.
func (s *Synchronizer) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Loading сообщает, выполняется ли сейчас полная перезагрузка.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err возвращает сообщение последней ошибки перезагрузки или пустую строку.
func (s *Synchronizer) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresh замещает локальное состояние списком с сервера целиком. Вызывается
// всегда, когда инкрементальной сверке доверять нельзя: первая загрузка,
// смена сессии, неоднозначный сбой. При ошибке список очищается.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	products, err := s.gateway.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.products = nil
		s.lastErr = domain.UserMessage(err)
		return err
	}
	s.products = products
	return nil
}

// Create отправляет черновик на сервер и сверяет канонический ответ с
// локальным списком. Если локальная запись совпадает с черновиком по имени,
// цене и обеим координатам, она замещается канонической записью — так
// подтверждается ранее отправленный оптимистичный дубль; иначе запись
// добавляется в конец. Правило действует только при создании: Update и
// Delete сверяются строго по id, поскольку риск ложного слияния существует
// лишь у записей без подтверждённого серверного идентификатора.
func (s *Synchronizer) Create(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	created, err := s.gateway.CreateProduct(ctx, draft)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].MatchesDraft(draft) {
			s.products[i] = created
			return created, nil
		}
	}
	s.products = append(s.products, created)
	return created, nil
}

// Update отправляет изменяемые поля товара и замещает локальную запись с тем
// же id канонической. Существование id проверяет сервер; при ошибке
// локальное состояние не меняется.
func (s *Synchronizer) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	upd := domain.ProductUpdate{
		NewQuantity: product.Quantity,
		NewPrice:    product.Price,
		NewLocation: product.Location,
	}

	updated, err := s.gateway.UpdateProduct(ctx, product.ID, upd)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = updated
			break
		}
	}
	return updated, nil
}

// Delete удаляет товар на сервере и, при успехе, из локального списка.
func (s *Synchronizer) Delete(ctx context.Context, id domain.ProductID) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return nil
}
