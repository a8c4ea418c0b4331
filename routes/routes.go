// routes/routes.go
package routes

import (
	"go-bookstore/controllers"
	"go-bookstore/middleware"

	"github.com/gorilla/mux"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Carts     *controllers.CartController
	Checkout  *controllers.CheckoutController
	Webhooks  *controllers.WebhookController
	Orders    *controllers.OrderController
	Tickets   *controllers.TicketController
	Analytics *controllers.AnalyticsController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Public routes
	router.HandleFunc("/register", c.Users.Register).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")
	router.HandleFunc("/verify", c.Users.VerifyEmail).Methods("GET")
	router.HandleFunc("/support", c.Tickets.Submit).Methods("POST")

	// Catalog routes
	router.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	router.HandleFunc("/categories", c.Products.GetCategories).Methods("GET")

	// Payment processor callback; authenticated by signature, not by JWT
	router.HandleFunc("/webhooks/stripe", c.Webhooks.HandleStripeWebhook).Methods("POST")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart", c.Carts.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", c.Carts.GetCart).Methods("GET")
	protected.HandleFunc("/cart", c.Carts.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/{product_id}", c.Carts.UpdateQuantity).Methods("PUT")
	protected.HandleFunc("/cart/{product_id}", c.Carts.RemoveFromCart).Methods("DELETE")

	// Checkout and order routes
	protected.HandleFunc("/checkout", c.Checkout.CreateSession).Methods("POST")
	protected.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", c.Orders.GetOrder).Methods("GET")
	protected.HandleFunc("/orders/{id}/download", c.Orders.Download).Methods("POST")
	protected.HandleFunc("/orders/{id}/invoice-downloaded", c.Orders.MarkInvoiceDownloaded).Methods("POST")
	protected.HandleFunc("/invoices", c.Orders.GenerateInvoice).Methods("POST")
	protected.HandleFunc("/download", c.Orders.PresignFile).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/categories", c.Products.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", c.Products.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", c.Products.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/orders", c.Orders.ListAllOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}", c.Orders.DeleteOrder).Methods("DELETE")
	admin.HandleFunc("/users", c.Users.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", c.Users.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/tickets", c.Tickets.ListTickets).Methods("GET")
	admin.HandleFunc("/tickets/{id}/close", c.Tickets.CloseTicket).Methods("PUT")
	admin.HandleFunc("/analytics", c.Analytics.GetSummary).Methods("GET")
}
