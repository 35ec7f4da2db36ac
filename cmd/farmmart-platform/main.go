package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farmmart/farmmart-platform/internal/api/handlers"
	"github.com/farmmart/farmmart-platform/internal/api/middleware"
	"github.com/farmmart/farmmart-platform/internal/config"
	"github.com/farmmart/farmmart-platform/internal/health"
	"github.com/farmmart/farmmart-platform/internal/metrics"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/farmmart/farmmart-platform/pkg/razorpay"
	"github.com/farmmart/farmmart-platform/pkg/sendgrid"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisRepo, err := repository.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	gatewayClient := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)
	emailClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, redisRepo, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, repos.User)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	notificationService := service.NewNotificationService(repos.Notification, emailClient)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	checkoutService := service.NewCheckoutService(repos.Cart, repos.Product, repos.Order, repos.Payment, notificationService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderService := service.NewOrderService(repos.Order)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(repos.Payment, gatewayClient, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Gateway: gatewayClient})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/{id}/related", productHandler.ListRelatedProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}/reviews", productHandler.ListReviews())
	routerMux.HandleFunc("POST /api/v1/products/{id}/reviews", authMiddleware.RequireRole(models.RoleBuyer, productHandler.AddReview()))
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.RequireRole(models.RoleFarmer, productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.RequireRole(models.RoleFarmer, productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.RequireRole(models.RoleFarmer, productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/products/mine", authMiddleware.RequireRole(models.RoleFarmer, productHandler.ListMyProducts()))
	routerMux.HandleFunc("GET /api/v1/farmers/{id}", productHandler.GetFarmerProfile())

	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.RequireRole(models.RoleBuyer, cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.RequireRole(models.RoleBuyer, cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.RequireRole(models.RoleBuyer, cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{productId}/{tier}", authMiddleware.RequireRole(models.RoleBuyer, cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/carts", authMiddleware.RequireRole(models.RoleBuyer, cartHandler.ClearCart()))

	routerMux.HandleFunc("POST /api/v1/checkout/preview", authMiddleware.RequireRole(models.RoleBuyer, checkoutHandler.Preview()))
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.RequireRole(models.RoleBuyer, checkoutHandler.Checkout()))

	routerMux.HandleFunc("POST /api/v1/payments/orders", authMiddleware.RequireRole(models.RoleBuyer, paymentHandler.CreatePaymentOrder()))
	routerMux.HandleFunc("POST /api/v1/payments/verify", authMiddleware.RequireRole(models.RoleBuyer, paymentHandler.VerifyPayment()))

	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.RequireRole(models.RoleBuyer, orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/received", authMiddleware.RequireRole(models.RoleFarmer, orderHandler.ListReceivedOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.RequireRole(models.RoleFarmer, orderHandler.UpdateOrderStatus()))

	routerMux.HandleFunc("POST /api/v1/notifications/email", authMiddleware.Authenticate(notificationHandler.SendEmail()))
	routerMux.HandleFunc("GET /api/v1/notifications", authMiddleware.Authenticate(notificationHandler.ListNotifications()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
