package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"go-bookstore/middleware"
	"go-bookstore/services"
	"go-bookstore/store"
	"net/http"
	"time"
)

// CheckoutController converts the authenticated user's cart into a hosted
// payment session.
type CheckoutController struct {
	Checkout *services.CheckoutService
	Users    store.UserRepository
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(checkout *services.CheckoutService, users store.UserRepository) *CheckoutController {
	return &CheckoutController{
		Checkout: checkout,
		Users:    users,
	}
}

// CreateSession starts the checkout flow and responds with the hosted
// payment page URL.
func (cc *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "You must sign in to check out", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	user, err := cc.Users.GetByEmail(ctx, claims.Email)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	url, err := cc.Checkout.Checkout(ctx, user.ID.Hex())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			writeJSONError(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, services.ErrCustomerNotFound):
			writeJSONError(w, "Customer could not be resolved", http.StatusBadRequest)
		default:
			// Provider errors pass through unsanitized.
			writeJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
