// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"go-bookstore/middleware"
	"go-bookstore/models"
	"go-bookstore/services"
	"go-bookstore/store"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// OrderController handles order listings, download gating, invoice
// generation and the admin order views.
type OrderController struct {
	Orders   *services.OrderService
	Invoices *services.InvoiceService
	Repo     store.OrderRepository
	Users    store.UserRepository
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, invoices *services.InvoiceService, repo store.OrderRepository, users store.UserRepository) *OrderController {
	return &OrderController{
		Orders:   orders,
		Invoices: invoices,
		Repo:     repo,
		Users:    users,
	}
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, _, ok := oc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	orders, err := oc.Orders.ListOrders(ctx, userID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// GetOrder retrieves one order with its line items
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, isAdmin, ok := oc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	orderID := mux.Vars(r)["id"]
	order, items, err := oc.Orders.GetOrder(ctx, orderID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order": order,
		"items": items,
	})
}

// Download issues a one-hour signed URL for a purchased file and records the
// download flag.
func (oc *OrderController) Download(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, isAdmin, ok := oc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSONError(w, "product_id is required", http.StatusBadRequest)
		return
	}

	orderID := mux.Vars(r)["id"]
	url, err := oc.Orders.DownloadURL(ctx, orderID, req.ProductID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound), errors.Is(err, store.ErrProductNotFound):
			writeJSONError(w, "Order or product not found", http.StatusNotFound)
		case errors.Is(err, services.ErrOrderNotPaid):
			writeJSONError(w, "Order has not been paid", http.StatusBadRequest)
		default:
			writeJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// PresignFile signs an arbitrary stored file path for one hour
func (oc *OrderController) PresignFile(w http.ResponseWriter, r *http.Request) {
	filePath := r.URL.Query().Get("file_path")
	if filePath == "" {
		writeJSONError(w, "file_path is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	url, err := oc.Orders.PresignFile(ctx, filePath)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// GenerateInvoice renders and stores the order's invoice PDF, responding
// with a seven-day signed URL. Foreign orders read as not found.
func (oc *OrderController) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID, isAdmin, ok := oc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSONError(w, "orderId is required", http.StatusBadRequest)
		return
	}

	url, err := oc.Invoices.Generate(ctx, req.OrderID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			writeJSONError(w, "Order not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// MarkInvoiceDownloaded flips the one-way invoice consumption flag for an
// order the caller owns. A failed flag write is logged but never blocks the
// caller; an unknown or foreign order is a 404.
func (oc *OrderController) MarkInvoiceDownloaded(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, isAdmin, ok := oc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	orderID := mux.Vars(r)["id"]
	if err := oc.Orders.MarkInvoiceDownloaded(ctx, orderID, userID, isAdmin); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("failed to mark invoice downloaded for order %s: %v", orderID, err)
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ListAllOrders retrieves all orders, optionally filtered by status (admin)
func (oc *OrderController) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidOrderStatus(status) {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Repo.ListOrders(ctx, status)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// UpdateOrderStatus applies an admin status change, restricted to the
// allowed transitions.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidOrderStatus(req.Status) {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := mux.Vars(r)["id"]
	order, err := oc.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve order", http.StatusInternalServerError)
		return
	}

	if !models.CanTransitionOrder(order.Status, req.Status) {
		http.Error(w, "Status transition not allowed", http.StatusBadRequest)
		return
	}

	if err := oc.Repo.UpdateOrderStatus(ctx, orderID, req.Status); err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated"})
}

// DeleteOrder removes an order and its items (admin escape hatch)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := mux.Vars(r)["id"]
	if err := oc.Repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Order deleted"})
}

func (oc *OrderController) resolveUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false, false
	}

	user, err := oc.Users.GetByEmail(ctx, claims.Email)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return "", false, false
	}
	return user.ID.Hex(), claims.Role == "admin", true
}
