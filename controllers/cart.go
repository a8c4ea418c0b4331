package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"go-bookstore/middleware"
	"go-bookstore/models"
	"go-bookstore/services"
	"go-bookstore/store"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// CartController handles cart-related requests
type CartController struct {
	Carts    *services.CartService
	Products store.ProductRepository
	Users    store.UserRepository
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService, products store.ProductRepository, users store.UserRepository) *CartController {
	return &CartController{
		Carts:    carts,
		Products: products,
		Users:    users,
	}
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart snapshots a catalog product into the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := cc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 {
		http.Error(w, "Quantity must not be negative", http.StatusBadRequest)
		return
	}

	product, err := cc.Products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	item := models.CartItem{
		ProductID:       product.ID.Hex(),
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		Quantity:        req.Quantity,
		ImageURL:        product.ImageURL,
		StripeProductID: product.StripeProductID,
	}
	if err := cc.Carts.AddItem(ctx, userID, item); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Item added to cart"})
}

// UpdateQuantity replaces the quantity of one cart line. Zero removes the
// line; negative values leave the cart unchanged.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := cc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	productID := mux.Vars(r)["product_id"]
	if err := cc.Carts.UpdateQuantity(ctx, userID, productID, req.Quantity); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Cart updated"})
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := cc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	productID := mux.Vars(r)["product_id"]
	if err := cc.Carts.RemoveItem(ctx, userID, productID); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Item removed from cart"})
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := cc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	if err := cc.Carts.ClearCart(ctx, userID); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared"})
}

// GetCart retrieves the user's cart with derived totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := cc.resolveUser(ctx, w, r)
	if !ok {
		return
	}

	cart, err := cc.Carts.GetCart(ctx, userID)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"cart":        cart,
		"total":       services.CartTotal(cart),
		"total_items": services.CartTotalItems(cart),
	})
}

func (cc *CartController) resolveUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}

	user, err := cc.Users.GetByEmail(ctx, claims.Email)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return "", false
	}
	return user.ID.Hex(), true
}
