// main.go
package main

import (
	"context"
	"fmt"
	"go-bookstore/controllers"
	"go-bookstore/routes"
	"go-bookstore/services"
	"go-bookstore/store"
	"go-bookstore/utils"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize provider clients
	emailService := utils.NewEmailService()
	storage := utils.NewObjectStorage()
	stripeClient := utils.NewStripeClient(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("STRIPE_SUCCESS_URL"),
		os.Getenv("STRIPE_CANCEL_URL"),
	)

	// Connect to MongoDB and Redis
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	redisClient := utils.ConnectRedis()
	defer redisClient.Close()

	// Repositories
	cartRepo := store.NewCartRepository(client)
	cartCache := store.NewCartCache(redisClient)
	orderRepo := store.NewOrderRepository(client)
	productRepo := store.NewProductRepository(client)
	userRepo := store.NewUserRepository(client)

	// Services
	cartService := services.NewCartService(cartRepo, cartCache)
	checkoutService := services.NewCheckoutService(cartService, userRepo, orderRepo, stripeClient)
	webhookService := services.NewWebhookService(orderRepo, productRepo, stripeClient, emailService)
	orderService := services.NewOrderService(orderRepo, productRepo, storage)
	invoiceService := services.NewInvoiceService(orderRepo, storage)

	// Controllers
	c := routes.Controllers{
		Users:     controllers.NewUserController(client, emailService),
		Products:  controllers.NewProductController(client),
		Carts:     controllers.NewCartController(cartService, productRepo, userRepo),
		Checkout:  controllers.NewCheckoutController(checkoutService, userRepo),
		Webhooks:  controllers.NewWebhookController(webhookService, os.Getenv("STRIPE_WEBHOOK_SECRET")),
		Orders:    controllers.NewOrderController(orderService, invoiceService, orderRepo, userRepo),
		Tickets:   controllers.NewTicketController(client, emailService),
		Analytics: controllers.NewAnalyticsController(client),
	}

	// Set up the router and register routes
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
