package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-grocery/controllers"
	"go-grocery/middleware"
	"go-grocery/utils"
)

// Controllers bundles every controller the router wires up
type Controllers struct {
	Admin        *controllers.AdminController
	Customer     *controllers.CustomerController
	Partner      *controllers.DeliveryPartnerController
	Product      *controllers.ProductController
	Category     *controllers.CategoryController
	Cart         *controllers.CartController
	Order        *controllers.OrderController
	AdminOrder   *controllers.AdminOrderController
	Dashboard    *controllers.DashboardController
	Report       *controllers.ReportController
	Notification *controllers.NotificationController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c *Controllers) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.OK(w, "OK", nil)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/loginAdmin", c.Admin.LoginAdmin).Methods("POST")

	adminOnly := admin.NewRoute().Subrouter()
	adminOnly.Use(middleware.AuthMiddleware)
	adminOnly.Use(middleware.RequireRole(utils.RoleAdmin))
	adminOnly.HandleFunc("/createAdmin", c.Admin.CreateAdmin).Methods("POST")
	adminOnly.HandleFunc("/getAllAdmins", c.Admin.GetAllAdmins).Methods("GET")
	adminOnly.HandleFunc("/getAdminById/{id}", c.Admin.GetAdminByID).Methods("GET")
	adminOnly.HandleFunc("/updateAdmin/{id}", c.Admin.UpdateAdmin).Methods("PUT")
	adminOnly.HandleFunc("/deleteAdmin/{id}", c.Admin.DeleteAdmin).Methods("DELETE")

	// Delivery partner management (admin)
	adminOnly.HandleFunc("/deliveryPartner/create", c.Partner.Create).Methods("POST")
	adminOnly.HandleFunc("/deliveryPartner/getAll", c.Partner.GetAll).Methods("GET")
	adminOnly.HandleFunc("/deliveryPartner/getById/{id}", c.Partner.GetByID).Methods("GET")
	adminOnly.HandleFunc("/deliveryPartner/update/{id}", c.Partner.Update).Methods("PUT")
	adminOnly.HandleFunc("/deliveryPartner/delete/{id}", c.Partner.Delete).Methods("DELETE")

	// Order management (admin)
	adminOnly.HandleFunc("/order/getAllOrders", c.AdminOrder.GetAllOrders).Methods("GET")
	adminOnly.HandleFunc("/order/search", c.AdminOrder.SearchOrders).Methods("GET")
	adminOnly.HandleFunc("/order/getOrderById/{id}", c.AdminOrder.GetOrderByID).Methods("GET")
	adminOnly.HandleFunc("/order/updateStatus/{id}", c.AdminOrder.UpdateStatus).Methods("PUT")

	// Dashboard and reporting (admin)
	adminOnly.HandleFunc("/dashboard/stats", c.Dashboard.GetStats).Methods("GET")
	adminOnly.HandleFunc("/report/sales", c.Report.DownloadSalesReport).Methods("GET")

	// Broadcast notifications (admin)
	adminOnly.HandleFunc("/notification/send", c.Notification.Send).Methods("POST")
	adminOnly.HandleFunc("/notification/all", c.Notification.GetAll).Methods("GET")
	adminOnly.HandleFunc("/notification/{id}", c.Notification.GetByID).Methods("GET")

	// Customer management (admin)
	adminOnly.HandleFunc("/customer/getAllCustomers", c.Customer.GetAllCustomers).Methods("GET")
	adminOnly.HandleFunc("/customer/search", c.Customer.SearchCustomers).Methods("GET")
	adminOnly.HandleFunc("/customer/getCustomerById/{id}", c.Customer.GetProfile).Methods("GET")
	adminOnly.HandleFunc("/customer/deleteCustomer/{id}", c.Customer.DeleteCustomer).Methods("DELETE")

	// Product routes
	product := api.PathPrefix("/product").Subrouter()
	product.HandleFunc("/getAllProducts", c.Product.GetAllProducts).Methods("GET")
	product.HandleFunc("/search", c.Product.SearchProducts).Methods("GET")
	product.HandleFunc("/getSuggestedProducts/{id}", c.Product.GetSuggestedProducts).Methods("GET")
	product.HandleFunc("/getProductById/{id}", c.Product.GetProductByID).Methods("GET")

	productAdmin := product.NewRoute().Subrouter()
	productAdmin.Use(middleware.AuthMiddleware)
	productAdmin.Use(middleware.RequireRole(utils.RoleAdmin))
	productAdmin.HandleFunc("/admin/getAllProducts", c.Product.GetAllProductsForAdmin).Methods("GET")
	productAdmin.HandleFunc("/admin/getProductById/{id}", c.Product.GetProductByIDForAdmin).Methods("GET")
	productAdmin.HandleFunc("/createProduct", c.Product.CreateProduct).Methods("POST")
	productAdmin.HandleFunc("/updateProduct/{id}", c.Product.UpdateProduct).Methods("PUT")
	productAdmin.HandleFunc("/deleteProduct/{id}", c.Product.DeleteProduct).Methods("DELETE")
	productAdmin.HandleFunc("/deleteProductImage/{id}", c.Product.DeleteProductImage).Methods("DELETE")

	// Category routes
	category := api.PathPrefix("/category").Subrouter()
	category.HandleFunc("/getAllCategories", c.Category.GetAllCategories).Methods("GET")
	category.HandleFunc("/getProductsByCategory/{category}", c.Category.GetProductsByCategory).Methods("GET")

	// Customer routes
	customer := api.PathPrefix("/customer").Subrouter()
	customer.HandleFunc("/register", c.Customer.Register).Methods("POST")
	customer.HandleFunc("/login", c.Customer.Login).Methods("POST")

	customerAuth := customer.NewRoute().Subrouter()
	customerAuth.Use(middleware.AuthMiddleware)
	customerAuth.Use(middleware.RequireRole(utils.RoleCustomer))
	customerAuth.HandleFunc("/logout", c.Customer.Logout).Methods("POST")
	customerAuth.HandleFunc("/profile", c.Customer.GetProfile).Methods("GET")
	customerAuth.HandleFunc("/profile", c.Customer.UpdateProfile).Methods("PUT")
	customerAuth.HandleFunc("/update-fcm-token", c.Customer.UpdateFCMToken).Methods("PUT")

	// Delivery partner routes
	partner := api.PathPrefix("/deliveryPartner").Subrouter()
	partner.HandleFunc("/login", c.Partner.Login).Methods("POST")

	partnerAuth := partner.NewRoute().Subrouter()
	partnerAuth.Use(middleware.AuthMiddleware)
	partnerAuth.Use(middleware.RequireRole(utils.RolePartner))
	partnerAuth.HandleFunc("/update-fcm-token", c.Partner.UpdateFCMToken).Methods("PUT")

	// Cart routes
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.Use(middleware.RequireRole(utils.RoleCustomer))
	cart.HandleFunc("/add", c.Cart.AddToCart).Methods("POST")
	cart.HandleFunc("", c.Cart.GetCart).Methods("GET")
	cart.HandleFunc("/", c.Cart.GetCart).Methods("GET")
	cart.HandleFunc("/remove/{productId}", c.Cart.RemoveFromCart).Methods("DELETE")

	// Order routes
	order := api.PathPrefix("/order").Subrouter()
	order.Use(middleware.AuthMiddleware)
	order.Use(middleware.RequireRole(utils.RoleCustomer))
	order.HandleFunc("/placeOrder", c.Order.PlaceOrder).Methods("POST")
	order.HandleFunc("/myOrders", c.Order.GetMyOrders).Methods("GET")
	order.HandleFunc("/track/{id}", c.Order.TrackOrder).Methods("GET")
	order.HandleFunc("/{id}", c.Order.GetOrderByID).Methods("GET")
}
