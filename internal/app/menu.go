package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/shopyhq/shopy/internal/compose"
	"github.com/shopyhq/shopy/internal/domain"
	"github.com/shopyhq/shopy/internal/replay"
	"github.com/shopyhq/shopy/internal/session"
	"github.com/shopyhq/shopy/internal/warehouse"
)

// ordersPerPage — размер страницы списка заказов.
const ordersPerPage = 5

// MenuDeps — компоненты, которыми управляет меню.
type MenuDeps struct {
	Auth     domain.AuthGateway
	Catalog  domain.ProductGateway
	Sessions *session.Manager
	Products *warehouse.Synchronizer
	Orders   domain.OrderGateway
	Order    *compose.Composition
	Checks   *replay.Replay
}

// Menu — интерактивное терминальное меню клиента. Ошибки операций печатаются
// пользователю, и меню продолжает работу.
type Menu struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Entry
	deps   MenuDeps
}

// NewMenu конструирует меню поверх потоков ввода-вывода.
func NewMenu(in io.Reader, out io.Writer, logger *log.Entry, deps MenuDeps) *Menu {
	if logger == nil {
		logger = log.NewEntry(log.New())
	}
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
		deps:   deps,
	}
}

// Run крутит цикл меню до выхода пользователя, конца ввода или отмены
// контекста.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to Shopy!")
	if user, ok := m.deps.Sessions.Current(); ok {
		fmt.Fprintf(m.out, "Signed in as %s (%s)\n", user.Name, user.Email)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		m.printMainMenu()
		choice, ok := m.readLine()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.signIn(ctx)
		case "2":
			m.register(ctx)
		case "3":
			m.signOut()
		case "4":
			m.listProducts(ctx)
		case "5":
			m.showProduct(ctx)
		case "6":
			m.createProduct(ctx)
		case "7":
			m.updateProduct(ctx)
		case "8":
			m.deleteProduct(ctx)
		case "9":
			m.placeOrder(ctx)
		case "10":
			m.listOrders(ctx)
		case "11":
			m.checkOrderStatus(ctx)
		case "12":
			m.checkOrderRoute(ctx)
		case "0":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Please enter a number from 0 to 12.")
		}
	}
}

func (m *Menu) printMainMenu() {
	fmt.Fprintln(m.out, "\nChoose an option:")
	fmt.Fprintln(m.out, "1. Sign in")
	fmt.Fprintln(m.out, "2. Register")
	fmt.Fprintln(m.out, "3. Sign out")
	fmt.Fprintln(m.out, "4. List products")
	fmt.Fprintln(m.out, "5. Show product")
	fmt.Fprintln(m.out, "6. Create product")
	fmt.Fprintln(m.out, "7. Update product")
	fmt.Fprintln(m.out, "8. Delete product")
	fmt.Fprintln(m.out, "9. Place new order")
	fmt.Fprintln(m.out, "10. List orders")
	fmt.Fprintln(m.out, "11. Check order status")
	fmt.Fprintln(m.out, "12. Check order route")
	fmt.Fprintln(m.out, "0. Exit")
	fmt.Fprint(m.out, "> ")
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

func (m *Menu) promptInt(label string) (int, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input. Please ensure numbers are entered correctly.")
		return 0, false
	}
	return n, true
}

func (m *Menu) promptFloat(label string) (float64, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input. Please ensure numbers are entered correctly.")
		return 0, false
	}
	return f, true
}

func (m *Menu) reportError(err error) {
	m.logger.WithError(err).Debug("menu operation failed")
	fmt.Fprintln(m.out, domain.UserMessage(err))
}

func (m *Menu) signIn(ctx context.Context) {
	email, ok := m.prompt("Email: ")
	if !ok {
		return
	}
	password, ok := m.prompt("Password: ")
	if !ok {
		return
	}

	sess, err := m.deps.Auth.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		m.reportError(err)
		return
	}
	if err := m.deps.Sessions.Set(sess); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "Signed in as %s (%s)\n", sess.User.Name, sess.User.Email)

	// Новая сессия: локальному списку товаров доверять нельзя.
	if err := m.deps.Products.Refresh(ctx); err != nil {
		m.reportError(err)
	}
}

func (m *Menu) register(ctx context.Context) {
	name, ok := m.prompt("Name: ")
	if !ok {
		return
	}
	email, ok := m.prompt("Email: ")
	if !ok {
		return
	}
	password, ok := m.prompt("Password: ")
	if !ok {
		return
	}
	telephone, ok := m.prompt("Telephone: ")
	if !ok {
		return
	}
	address, ok := m.prompt("Address: ")
	if !ok {
		return
	}

	sess, err := m.deps.Auth.Register(ctx, domain.Registration{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Password:  password,
		Telephone: strings.TrimSpace(telephone),
		Address:   strings.TrimSpace(address),
	})
	if err != nil {
		m.reportError(err)
		return
	}
	if err := m.deps.Sessions.Set(sess); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "Registered and signed in as %s\n", sess.User.Name)
}

func (m *Menu) signOut() {
	if err := m.deps.Sessions.Clear(); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintln(m.out, "Signed out.")
}

func (m *Menu) listProducts(ctx context.Context) {
	if err := m.deps.Products.Refresh(ctx); err != nil {
		m.reportError(err)
		return
	}

	products := m.deps.Products.Products()
	fmt.Fprintln(m.out, "\nAvailable Products:")
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products in inventory.")
		return
	}
	for i, p := range products {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, formatProduct(p))
	}
}

func (m *Menu) showProduct(ctx context.Context) {
	raw, ok := m.prompt("\nEnter product id: ")
	if !ok {
		return
	}
	id := domain.ProductID(strings.TrimSpace(raw))
	if id == "" {
		fmt.Fprintln(m.out, "Product id is required.")
		return
	}

	product, err := m.deps.Catalog.GetProduct(ctx, id)
	if err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintln(m.out, formatProduct(product))
}

func (m *Menu) createProduct(ctx context.Context) {
	name, ok := m.prompt("\nEnter product name: ")
	if !ok {
		return
	}
	quantity, ok := m.promptInt("Enter quantity: ")
	if !ok {
		return
	}
	price, ok := m.promptFloat("Enter price: ")
	if !ok {
		return
	}
	x, ok := m.promptInt("Enter warehouse location X: ")
	if !ok {
		return
	}
	y, ok := m.promptInt("Enter warehouse location Y: ")
	if !ok {
		return
	}

	draft := domain.ProductDraft{
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
		Location: domain.Point{X: x, Y: y},
	}
	if errs := draft.ValidateInvariants(); len(errs) > 0 {
		for _, err := range errs {
			m.reportError(err)
		}
		return
	}

	if _, err := m.deps.Products.Create(ctx, draft); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintln(m.out, "Product created successfully.")
}

func (m *Menu) updateProduct(ctx context.Context) {
	raw, ok := m.prompt("\nEnter the id of the product to update: ")
	if !ok {
		return
	}
	product, found := m.findLocal(domain.ProductID(strings.TrimSpace(raw)))
	if !found {
		fmt.Fprintln(m.out, "Product not found.")
		return
	}

	quantity, ok := m.promptInt("Enter new quantity: ")
	if !ok {
		return
	}
	price, ok := m.promptFloat("Enter new price: ")
	if !ok {
		return
	}
	x, ok := m.promptInt("Enter new warehouse location X: ")
	if !ok {
		return
	}
	y, ok := m.promptInt("Enter new warehouse location Y: ")
	if !ok {
		return
	}

	product.Quantity = quantity
	product.Price = price
	product.Location = domain.Point{X: x, Y: y}

	if _, err := m.deps.Products.Update(ctx, product); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintln(m.out, "Product updated successfully.")
}

func (m *Menu) deleteProduct(ctx context.Context) {
	raw, ok := m.prompt("\nEnter the id of the product to delete: ")
	if !ok {
		return
	}
	id := domain.ProductID(strings.TrimSpace(raw))
	if _, found := m.findLocal(id); !found {
		fmt.Fprintln(m.out, "Product not found.")
		return
	}

	if err := m.deps.Products.Delete(ctx, id); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintln(m.out, "Product deleted successfully.")
}

func (m *Menu) placeOrder(ctx context.Context) {
	fmt.Fprintln(m.out, "\nPlacing a new order...")
	m.deps.Order.Reset()

	row := 0
	for {
		raw, ok := m.prompt("Enter product id (or 'done' to finish): ")
		if !ok {
			return
		}
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "done") {
			break
		}

		id := domain.ProductID(raw)
		if _, found := m.findLocal(id); !found {
			fmt.Fprintln(m.out, "Product not found in inventory. Please try again.")
			continue
		}
		if selectedAlready(m.deps.Order.SelectedProductIDs(), id) {
			fmt.Fprintln(m.out, "Product already added to this order.")
			continue
		}

		quantity, ok := m.promptInt("Enter quantity: ")
		if !ok {
			continue
		}
		if quantity <= 0 {
			fmt.Fprintln(m.out, "Quantity must be greater than zero.")
			continue
		}

		if row > 0 {
			m.deps.Order.AddRow()
		}
		m.deps.Order.SetRowProduct(row, id)
		m.deps.Order.SetRowQuantity(row, quantity)
		row++
	}

	if len(m.deps.Order.SelectedProductIDs()) == 0 {
		fmt.Fprintln(m.out, "Order cancelled as no products were added.")
		m.deps.Order.Reset()
		return
	}

	fmt.Fprintln(m.out, "\nProcessing your order...")
	order, err := m.deps.Order.Submit(ctx)
	if err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "Order %d placed, status: %s\n", order.ID, order.Status)
}

func (m *Menu) listOrders(ctx context.Context) {
	orders, err := m.deps.Orders.ListOrders(ctx)
	if err != nil {
		m.reportError(err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(m.out, "No orders yet.")
		return
	}

	for start := 0; start < len(orders); start += ordersPerPage {
		end := start + ordersPerPage
		if end > len(orders) {
			end = len(orders)
		}
		for _, o := range orders[start:end] {
			fmt.Fprintln(m.out, formatOrder(o))
		}
		if end == len(orders) {
			return
		}
		raw, ok := m.prompt("-- Enter for next page, q to stop -- ")
		if !ok || strings.EqualFold(strings.TrimSpace(raw), "q") {
			return
		}
	}
}

func (m *Menu) checkOrderStatus(ctx context.Context) {
	raw, ok := m.prompt("\nEnter order number: ")
	if !ok {
		return
	}
	status, err := m.deps.Checks.CheckStatus(ctx, raw)
	if err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "Order status: %s\n", formatStatus(status))
}

func (m *Menu) checkOrderRoute(ctx context.Context) {
	raw, ok := m.prompt("\nEnter order number: ")
	if !ok {
		return
	}
	if err := m.deps.Checks.Check(ctx, raw); err != nil {
		m.reportError(err)
		return
	}

	status, _ := m.deps.Checks.Status()
	route, _ := m.deps.Checks.Route()
	fmt.Fprintf(m.out, "Order status: %s\n", formatStatus(status))
	fmt.Fprintf(m.out, "Visited locations: %s\n", formatRoute(route))
}

// findLocal ищет товар в локальном списке синхронизатора.
func (m *Menu) findLocal(id domain.ProductID) (domain.Product, bool) {
	for _, p := range m.deps.Products.Products() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func selectedAlready(ids []domain.ProductID, id domain.ProductID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func formatProduct(p domain.Product) string {
	return fmt.Sprintf("[%s] %s, price %.2f, quantity %d, location [%d,%d]",
		p.ID, p.Name, p.Price, p.Quantity, p.Location.X, p.Location.Y)
}

// formatStatus помечает статусы, не известные клиенту: сервер может ввести
// новое значение раньше, чем обновится клиент.
func formatStatus(s domain.OrderStatus) string {
	if s.Known() {
		return string(s)
	}
	return fmt.Sprintf("%s (unrecognized)", s)
}

func formatOrder(o domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %d, status %s", o.ID, formatStatus(o.Status))
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(&b, ", created %s", o.CreatedAt.Format("2006-01-02 15:04"))
	}
	for _, item := range o.Items {
		fmt.Fprintf(&b, "\n  - %s x%d", item.ProductName, item.Quantity)
	}
	return b.String()
}

func formatRoute(r domain.Route) string {
	if len(r.VisitedLocations) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(r.VisitedLocations))
	for _, p := range r.VisitedLocations {
		parts = append(parts, fmt.Sprintf("[%d,%d]", p.X, p.Y))
	}
	return strings.Join(parts, ", ")
}
