package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shopyhq/shopy/internal/api"
	"github.com/shopyhq/shopy/internal/compose"
	"github.com/shopyhq/shopy/internal/domain"
	"github.com/shopyhq/shopy/internal/replay"
	"github.com/shopyhq/shopy/internal/session"
	"github.com/shopyhq/shopy/internal/warehouse"
)

// fakeShopyAPI — минимальный in-memory сервер Shopy API для сквозных тестов
// клиента: авторизация, товары, заказы и маршруты.
type fakeShopyAPI struct {
	mu       sync.Mutex
	token    string
	nextID   int
	products map[string]map[string]any
	orders   map[int64]map[string]any
	routes   map[int64][][]int
}

func newFakeShopyAPI() *fakeShopyAPI {
	return &fakeShopyAPI{
		token:    "integration-token",
		nextID:   1,
		products: make(map[string]map[string]any),
		orders:   make(map[int64]map[string]any),
		routes:   make(map[int64][][]int),
	}
}

func (f *fakeShopyAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("GET /api/products", f.listProducts)
	mux.HandleFunc("POST /api/products", f.createProduct)
	mux.HandleFunc("DELETE /api/products/{id}", f.deleteProduct)
	mux.HandleFunc("GET /api/orders", f.listOrders)
	mux.HandleFunc("POST /api/orders", f.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", f.orderStatus)
	mux.HandleFunc("GET /api/routes", f.routeByOrder)
	return f.authorize(mux)
}

func (f *fakeShopyAPI) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/auth/") {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeShopyAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "bad credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": f.token,
		"user": map[string]any{
			"id": 1, "name": "Ann", "email": body["email"],
			"telephone": "111", "address": "Warehouse st. 1",
		},
	})
}

func (f *fakeShopyAPI) listProducts(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeShopyAPI) createProduct(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	// Сервер отдаёт числовой id: клиент обязан нормализовать его в строку.
	id := f.nextID
	f.nextID++
	product := map[string]any{
		"id": id, "name": body["name"], "price": body["price"],
		"quantity": body["quantity"], "location": body["location"],
	}
	f.products[strconv.Itoa(id)] = product
	writeJSON(w, http.StatusCreated, product)
}

func (f *fakeShopyAPI) deleteProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.products[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("Product with id %s not found", id)})
		return
	}
	delete(f.products, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeShopyAPI) listOrders(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeShopyAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []map[string]any `json:"items"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(f.nextID)
	f.nextID++
	order := map[string]any{"id": id, "items": body.Items, "status": "pending"}
	f.orders[id] = order
	f.routes[id] = [][]int{{0, 0}, {1, 0}, {1, 3}}
	writeJSON(w, http.StatusCreated, order)
}

func (f *fakeShopyAPI) orderStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	order, ok := f.orders[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("Order with id %d not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": order["status"]})
}

func (f *fakeShopyAPI) routeByOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	route, ok := f.routes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("Route for order %d not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orderId": id, "status": f.orders[id]["status"], "visitedLocations": route,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ClientLifecycleTestSuite гоняет клиент целиком против фейкового Shopy API.
type ClientLifecycleTestSuite struct {
	suite.Suite
	server   *httptest.Server
	fake     *fakeShopyAPI
	client   *api.Client
	sessions *session.Manager
	sync     *warehouse.Synchronizer
	order    *compose.Composition
	checks   *replay.Replay
}

func (suite *ClientLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.fake = newFakeShopyAPI()
	suite.server = httptest.NewServer(suite.fake.handler())

	path := filepath.Join(suite.T().TempDir(), "session.json")
	suite.sessions = session.NewManager(session.NewFileStore(path), logger)
	require.NoError(suite.T(), suite.sessions.Init())

	suite.client = api.NewClient(suite.server.URL,
		api.WithLogger(logger),
		api.WithTokenSource(suite.sessions.Token),
		api.WithUnauthorizedHandler(func() { _ = suite.sessions.Clear() }),
	)

	suite.sync = warehouse.NewSynchronizer(suite.client)
	suite.order = compose.New(suite.client, suite.sync)
	suite.checks = replay.New(suite.client, suite.client)
}

func (suite *ClientLifecycleTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *ClientLifecycleTestSuite) signIn() {
	ctx := context.Background()
	sess, err := suite.client.Login(ctx, "ann@example.com", "secret")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.sessions.Set(sess))
}

func (suite *ClientLifecycleTestSuite) TestFullOrderLifecycle() {
	ctx := context.Background()
	suite.signIn()

	// 1. Пустой склад после первой загрузки
	require.NoError(suite.T(), suite.sync.Refresh(ctx))
	suite.Empty(suite.sync.Products())

	// 2. Создаём товар: числовой id сервера нормализуется в строку
	created, err := suite.sync.Create(ctx, domain.ProductDraft{
		Name: "Bolt", Price: 2, Quantity: 10, Location: domain.Point{X: 0, Y: 0},
	})
	require.NoError(suite.T(), err)
	suite.NotEmpty(created.ID)
	suite.Len(suite.sync.Products(), 1)

	// 3. Повторная отправка того же товара не плодит локальный дубль
	again, err := suite.sync.Create(ctx, domain.ProductDraft{
		Name: "Bolt", Price: 2, Quantity: 25, Location: domain.Point{X: 0, Y: 0},
	})
	require.NoError(suite.T(), err)
	suite.Len(suite.sync.Products(), 1)
	suite.Equal(again.ID, suite.sync.Products()[0].ID)

	// 4. Собираем и отправляем заказ
	suite.order.SetRowProduct(0, again.ID)
	suite.order.SetRowQuantity(0, 3)
	placed, err := suite.order.Submit(ctx)
	require.NoError(suite.T(), err)
	suite.Equal(domain.OrderStatusPending, placed.Status)
	suite.Equal([]compose.Row{{Quantity: 1}}, suite.order.Rows())

	// 5. Заказ виден в списке
	orders, err := suite.client.ListOrders(ctx)
	require.NoError(suite.T(), err)
	suite.Len(orders, 1)
	suite.Equal(placed.ID, orders[0].ID)

	// 6. Проверка статуса и маршрута по номеру заказа
	require.NoError(suite.T(), suite.checks.Check(ctx, strconv.FormatInt(placed.ID, 10)))
	status, ok := suite.checks.Status()
	suite.True(ok)
	suite.Equal(domain.OrderStatusPending, status)
	route, ok := suite.checks.Route()
	suite.True(ok)
	suite.Equal([]domain.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 3}}, route.VisitedLocations)

	// 7. Удаляем товар и сверяемся с сервером
	require.NoError(suite.T(), suite.sync.Delete(ctx, again.ID))
	require.NoError(suite.T(), suite.sync.Refresh(ctx))
	suite.Empty(suite.sync.Products())
}

func (suite *ClientLifecycleTestSuite) TestRejectedCredentialsClearSession() {
	ctx := context.Background()
	suite.signIn()
	suite.True(suite.sessions.IsAuthenticated())

	_, err := suite.client.Login(ctx, "ann@example.com", "wrong")
	suite.Error(err)
	suite.True(domain.IsSession(err))
	suite.False(suite.sessions.IsAuthenticated())
}

func (suite *ClientLifecycleTestSuite) TestExpiredTokenClearsSessionOnAnyCall() {
	ctx := context.Background()
	suite.signIn()

	// Сервер перестаёт принимать токен: любая операция роняет сессию.
	suite.fake.token = "rotated"
	err := suite.sync.Refresh(ctx)
	suite.Error(err)
	suite.True(domain.IsSession(err))
	suite.False(suite.sessions.IsAuthenticated())
	// Fail-safe: список очищен.
	suite.Empty(suite.sync.Products())
}

func (suite *ClientLifecycleTestSuite) TestRouteForUnknownOrderSurfacesServerMessage() {
	ctx := context.Background()
	suite.signIn()

	err := suite.checks.Check(ctx, "99")
	suite.Error(err)
	suite.True(domain.IsSync(err))
	suite.Contains(domain.UserMessage(err), "Order with id 99 not found")
}

func TestClientLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(ClientLifecycleTestSuite))
}
