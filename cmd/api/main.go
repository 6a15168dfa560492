package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	_ "bizdesk/api/swagger" // swagger docs
	"bizdesk/internal/database"
	"bizdesk/internal/handler"
	"bizdesk/internal/middleware"
	"bizdesk/internal/postgrest"
	"bizdesk/internal/repository"
	"bizdesk/internal/service"
	"bizdesk/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// purgeExpiredSessions sweeps the session table hourly. Expired rows are
// also rejected on resolve; the sweep just keeps the file from growing.
func purgeExpiredSessions(sessions repository.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if n, err := sessions.DeleteExpired(context.Background(), time.Now()); err != nil {
			log.Printf("Session purge failed: %v", err)
		} else if n > 0 {
			log.Printf("Purged %d expired sessions", n)
		}
	}
}

// @title           BizDesk API
// @version         1.0
// @description     Role-based business management API over a PostgREST-style data store: vendors, products, purchase orders, vendor bills, payments and ledgers.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	// Monetary fields go over the wire as JSON numbers, matching what the
	// data store itself returns.
	decimal.MarshalJSONWithoutQuotes = true

	storeURL := env("STORE_URL", "http://localhost:3000")
	storeToken := os.Getenv("STORE_TOKEN")
	sessionDBPath := env("SESSION_DB_PATH", "data/sessions.db")
	jwtSecret := middleware.GetJWTSecret()

	sessionDB, err := database.NewSessionDB(sessionDBPath)
	if err != nil {
		log.Fatalf("Session database failed: %v", err)
	}
	log.Printf("Session store ready at %s", sessionDBPath)

	// The unauthorized hook is bound after the auth service exists; the
	// client only ever calls it once requests are flowing.
	var authService service.AuthService
	store := postgrest.New(storeURL,
		postgrest.WithTokenFunc(func(ctx context.Context) string { return storeToken }),
		postgrest.OnUnauthorized(func(ctx context.Context) {
			// The store rejected the credentials behind this request:
			// whatever session carried them is no longer trustworthy.
			if token, ok := middleware.SessionToken(ctx); ok && authService != nil {
				authService.Invalidate(ctx, token)
				log.Printf("Session %s invalidated after data store 401", token)
			}
		}),
	)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	sessionRepo := repository.NewSessionRepository(sessionDB)
	go purgeExpiredSessions(sessionRepo)
	userRepo := repository.NewUserRepository(store)
	vendorRepo := repository.NewVendorRepository(store)
	productRepo := repository.NewProductRepository(store)
	hsnRepo := repository.NewHSNRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	billRepo := repository.NewBillRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)

	authService = service.NewAuthService(userRepo, sessionRepo, jwtSecret)
	userService := service.NewUserService(userRepo)
	vendorService := service.NewVendorService(vendorRepo)
	productService := service.NewProductService(productRepo, hsnRepo)
	orderService := service.NewOrderService(orderRepo, billRepo, wsHub)
	billService := service.NewBillService(billRepo, wsHub)
	paymentService := service.NewPaymentService(paymentRepo, billRepo, wsHub)
	ledgerService := service.NewLedgerService(billRepo, paymentRepo)
	dashboardService := service.NewDashboardService(vendorRepo, productRepo, orderRepo, billRepo, paymentRepo, userRepo)

	auth := middleware.NewAuth(authService, jwtSecret)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	billHandler := handler.NewBillHandler(billService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(env("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3001"), ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, jwtSecret)
	})

	// Public auth routes
	authHandler.RegisterRoutes(router.Group(""), auth)

	// Everything under /api needs a resolved session
	api := router.Group("/api", auth.RequireAuth())
	authHandler.RegisterProtected(api)
	userHandler.RegisterRoutes(api, auth)
	vendorHandler.RegisterRoutes(api, auth)
	productHandler.RegisterRoutes(api, auth)
	orderHandler.RegisterRoutes(api, auth)
	billHandler.RegisterRoutes(api, auth)
	paymentHandler.RegisterRoutes(api, auth)
	ledgerHandler.RegisterRoutes(api, auth)
	dashboardHandler.RegisterRoutes(api, auth)

	port := env("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
