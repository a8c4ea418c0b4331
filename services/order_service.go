package services

import (
	"context"
	"log"
	"time"

	"go-bookstore/models"
	"go-bookstore/store"
)

const downloadURLExpiry = time.Hour

// OrderService is the read side over orders: listings, download gating and
// the one-way consumption flags.
type OrderService struct {
	orders   store.OrderRepository
	products store.ProductRepository
	storage  FileStorage
}

func NewOrderService(orders store.OrderRepository, products store.ProductRepository, storage FileStorage) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		storage:  storage,
	}
}

// ListOrders returns the customer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

// GetOrder returns an order with its line items. Orders owned by someone else
// read as not found unless the caller is an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, customerID string, isAdmin bool) (*models.Order, []models.OrderItem, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !isAdmin && order.CustomerID != customerID {
		return nil, nil, store.ErrOrderNotFound
	}

	items, err := s.orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// DownloadURL gates access to a purchased file: the order must be paid and
// owned by the caller. The download flag is set after the URL is issued; a
// failed flag write is logged and the download proceeds anyway.
func (s *OrderService) DownloadURL(ctx context.Context, orderID, productID, customerID string, isAdmin bool) (string, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if !isAdmin && order.CustomerID != customerID {
		return "", store.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPaid {
		return "", ErrOrderNotPaid
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.PresignedGet(ctx, product.FilePath, downloadURLExpiry)
	if err != nil {
		return "", err
	}

	if err := s.orders.MarkDownloaded(ctx, orderID); err != nil {
		log.Printf("failed to mark order %s downloaded: %v", orderID, err)
	}

	return url, nil
}

// PresignFile issues a short-lived URL for an arbitrary stored file path.
func (s *OrderService) PresignFile(ctx context.Context, filePath string) (string, error) {
	return s.storage.PresignedGet(ctx, filePath, downloadURLExpiry)
}

// MarkInvoiceDownloaded flips the invoice consumption flag. Monotonic, and
// bookkeeping failure is tolerated by callers the same way as downloads.
// Foreign orders read as not found unless the caller is an admin.
func (s *OrderService) MarkInvoiceDownloaded(ctx context.Context, orderID, customerID string, isAdmin bool) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !isAdmin && order.CustomerID != customerID {
		return store.ErrOrderNotFound
	}
	return s.orders.MarkInvoiceDownloaded(ctx, orderID)
}
