// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/config"
	"github.com/lamaree/lamaree-backend/internal/handlers"
	"github.com/lamaree/lamaree-backend/internal/middleware"
	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	gateway, err := services.NewSMSGateway(cfg.SMS)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize SMS gateway")
	}
	notificationService := services.NewNotificationService(db, cfg, gateway)

	catalogService := services.NewCatalogService(db)
	orderService := services.NewOrderService(db, catalogService, notificationService)
	customerService := services.NewCustomerService(db)
	supplierService := services.NewSupplierService(db)
	dashboardService := services.NewDashboardService(db, catalogService)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	customerHandler := handlers.NewCustomerHandler(customerService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/register", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.Register)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Everything below is staff-only back office
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Product catalog
			products := protected.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.GET("/low-stock", productHandler.GetLowStockProducts)
				products.GET("/:id", productHandler.GetProduct)
				products.POST("", productHandler.CreateProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.DELETE("/:id", productHandler.DeleteProduct)
			}

			// Suppliers
			suppliers := protected.Group("/suppliers")
			{
				suppliers.GET("", supplierHandler.GetSuppliers)
				suppliers.GET("/:id", supplierHandler.GetSupplier)
				suppliers.POST("", supplierHandler.CreateSupplier)
				suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
				suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
			}

			// Customers
			customers := protected.Group("/customers")
			{
				customers.GET("", customerHandler.GetCustomers)
				customers.GET("/:id", customerHandler.GetCustomer)
				customers.GET("/:id/orders", customerHandler.GetCustomerOrders)
				customers.POST("", customerHandler.CreateCustomer)
				customers.PUT("/:id", customerHandler.UpdateCustomer)
				customers.DELETE("/:id", customerHandler.DeleteCustomer)
			}

			// Orders
			orders := protected.Group("/orders")
			{
				orders.GET("", orderHandler.GetOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.POST("", orderHandler.CreateOrder)
				orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				orders.DELETE("/:id", orderHandler.DeleteOrder)
			}

			// SMS logs
			protected.GET("/sms-logs", notificationHandler.GetSMSLogs)

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", dashboardHandler.GetStats)
				dashboard.GET("/low-stock", dashboardHandler.GetLowStockAlerts)
			}
		}
	}

	return r
}
