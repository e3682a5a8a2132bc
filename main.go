// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-grocery/controllers"
	"go-grocery/routes"
	"go-grocery/services"
	"go-grocery/store"
	"go-grocery/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	ctx := context.Background()

	// Connect to MongoDB
	client := store.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := store.Database(client)

	// Outbound services
	emailService := utils.NewEmailService()
	fcmService := utils.NewFCMService(ctx)
	s3Storage, err := utils.NewS3Storage(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	// Stores
	productStore := store.NewProductStore(db)
	cartStore := store.NewCartStore(db)
	orderStore := store.NewOrderStore(db)
	customerStore := store.NewCustomerStore(db)
	partnerStore := store.NewPartnerStore(db)
	notificationStore := store.NewNotificationStore(db)

	// Services
	cartService := services.NewCartService(productStore, cartStore)
	orderService := services.NewOrderService(orderStore, cartStore, productStore, customerStore, fcmService, emailService)
	notificationService := services.NewNotificationService(notificationStore, customerStore, partnerStore, fcmService)
	dashboardService := services.NewDashboardService(db)
	reportService := services.NewReportService(db)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, &routes.Controllers{
		Admin:        controllers.NewAdminController(db),
		Customer:     controllers.NewCustomerController(db),
		Partner:      controllers.NewDeliveryPartnerController(db),
		Product:      controllers.NewProductController(db, s3Storage),
		Category:     controllers.NewCategoryController(db),
		Cart:         controllers.NewCartController(cartService),
		Order:        controllers.NewOrderController(orderService),
		AdminOrder:   controllers.NewAdminOrderController(orderService),
		Dashboard:    controllers.NewDashboardController(dashboardService),
		Report:       controllers.NewReportController(reportService),
		Notification: controllers.NewNotificationController(notificationService),
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
