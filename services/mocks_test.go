package services

import (
	"context"
	"sync"
	"time"

	"go-bookstore/models"
	"go-bookstore/store"
)

// mockCartRepo implements store.CartRepository for testing
type mockCartRepo struct {
	mu          sync.Mutex
	cart        *models.Cart
	getErr      error
	upsertErr   error
	upsertCalls int
	deleteCalls int

	// optional hooks for concurrency tests
	getStarted chan struct{}
	getProceed chan struct{}
}

func (m *mockCartRepo) GetCart(context.Context, string) (*models.Cart, error) {
	if m.getStarted != nil {
		m.getStarted <- struct{}{}
		<-m.getProceed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return nil, store.ErrCartNotFound
	}
	copied := *m.cart
	copied.Items = append([]models.CartItem(nil), m.cart.Items...)
	return &copied, nil
}

func (m *mockCartRepo) UpsertCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.cart = cart
	return nil
}

func (m *mockCartRepo) DeleteCart(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	m.cart = nil
	return nil
}

// mockCartCache implements store.CartCache; by default every read misses
type mockCartCache struct {
	mu   sync.Mutex
	cart *models.Cart
}

func (m *mockCartCache) Get(context.Context, string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil, store.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCartCache) Set(_ context.Context, _ string, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCartCache) Delete(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
	return nil
}

// mockUserRepo implements store.UserRepository
type mockUserRepo struct {
	user *models.User
	err  error
}

func (m *mockUserRepo) GetByID(context.Context, string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, store.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return m.GetByID(context.Background(), "")
}

// mockOrderRepo implements store.OrderRepository, capturing writes
type mockOrderRepo struct {
	mu sync.Mutex

	orders map[string]*models.Order
	items  map[string][]models.OrderItem

	insertOrderErr error
	insertItemsErr error
	markErr        error

	statusUpdates  []string
	replacedOrders []string
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[string]*models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

func (m *mockOrderRepo) InsertOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertOrderErr != nil {
		return m.insertOrderErr
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) InsertOrderItems(_ context.Context, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertItemsErr != nil {
		return m.insertItemsErr
	}
	for _, item := range items {
		m.items[item.OrderID] = append(m.items[item.OrderID], item)
	}
	return nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) GetOrderBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.orders {
		if order.CheckoutSessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (m *mockOrderRepo) ListOrdersByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListOrders(_ context.Context, status string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, order := range m.orders {
		if status == "" || order.Status == status {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListOrderItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OrderItem(nil), m.items[orderID]...), nil
}

func (m *mockOrderRepo) ReplaceOrderItems(_ context.Context, orderID string, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[orderID] = append([]models.OrderItem(nil), items...)
	m.replacedOrders = append(m.replacedOrders, orderID)
	return nil
}

func (m *mockOrderRepo) UpdateOrderStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.Status = status
	m.statusUpdates = append(m.statusUpdates, id+":"+status)
	return nil
}

func (m *mockOrderRepo) MarkDownloaded(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	order, ok := m.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.Downloaded = true
	return nil
}

func (m *mockOrderRepo) MarkInvoiceDownloaded(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.InvoiceDownloaded = true
	return nil
}

func (m *mockOrderRepo) SetInvoiceURL(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.InvoiceURL = url
	return nil
}

func (m *mockOrderRepo) DeleteOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

// mockProductRepo implements store.ProductRepository keyed by stripe id
type mockProductRepo struct {
	products map[string]*models.Product // by hex id
	byStripe map[string]*models.Product
}

func (m *mockProductRepo) GetProduct(_ context.Context, id string) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepo) GetProductByStripeID(_ context.Context, stripeID string) (*models.Product, error) {
	product, ok := m.byStripe[stripeID]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

// mockPaymentClient implements PaymentClient, recording calls
type mockPaymentClient struct {
	sessionID string
	url       string
	createErr error

	lines    []SessionLineItem
	linesErr error

	createCalls int
	linesCalls  int
}

func (m *mockPaymentClient) CreateCheckoutSession(context.Context, []models.CartItem, string) (string, string, error) {
	m.createCalls++
	if m.createErr != nil {
		return "", "", m.createErr
	}
	return m.sessionID, m.url, nil
}

func (m *mockPaymentClient) SessionLineItems(context.Context, string) ([]SessionLineItem, error) {
	m.linesCalls++
	if m.linesErr != nil {
		return nil, m.linesErr
	}
	return m.lines, nil
}

// mockStorage implements FileStorage, recording uploads and presigns
type mockStorage struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	presigns []string
	signErr  error
	upErr    error
}

func newMockStorage() *mockStorage {
	return &mockStorage{uploads: make(map[string][]byte)}
}

func (m *mockStorage) Upload(_ context.Context, objectPath string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upErr != nil {
		return m.upErr
	}
	m.uploads[objectPath] = data
	return nil
}

func (m *mockStorage) PresignedGet(_ context.Context, objectPath string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signErr != nil {
		return "", m.signErr
	}
	m.presigns = append(m.presigns, objectPath)
	return "https://storage.example.com/" + objectPath + "?signed=1", nil
}

// mockMailer implements Mailer. When notify is set, each send reports the
// recipient on it so tests can wait for asynchronous dispatch.
type mockMailer struct {
	mu     sync.Mutex
	sent   []string
	calls  int
	notify chan string
}

func (m *mockMailer) SendOrderConfirmationEmail(toEmail string, _ models.Order) error {
	m.mu.Lock()
	m.calls++
	m.sent = append(m.sent, toEmail)
	m.mu.Unlock()
	if m.notify != nil {
		m.notify <- toEmail
	}
	return nil
}
