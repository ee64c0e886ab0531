package server

import (
	"context"
	"net/http"
	"time"

	"propcoin/internal/auth"
	"propcoin/internal/config"
	"propcoin/internal/email"
	"propcoin/internal/gateway"
	"propcoin/internal/ledger"
	"propcoin/internal/order"
	"propcoin/internal/pricing"
	"propcoin/internal/property"
	"propcoin/internal/settlement"
	"propcoin/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, receipts *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	ledgerRepo := ledger.NewRepository(db, cfg.StartingBalance)
	orderRepo := order.NewRepository(db, cfg.OrderTTL)
	pricingRepo := pricing.NewRepository(db)
	userRepo := user.NewRepository(db)
	propertyRepo := property.NewRepository(db)

	gatewayClient := gateway.NewClient(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayBaseURL)

	settlementService := settlement.NewService(
		ledgerRepo,
		orderRepo,
		pricingRepo,
		gatewayClient,
		receipts,
		cfg.GatewayKeySecret,
		cfg.GatewayWebhookSecret,
	)

	userHandler := user.NewHandler(user.NewService(userRepo, ledgerRepo, cfg.JWTSecret))
	ledgerHandler := ledger.NewHandler(ledgerRepo)
	settlementHandler := settlement.NewHandler(settlementService)
	propertyHandler := property.NewHandler(propertyRepo, settlementService)
	pricingHandler := pricing.NewHandler(pricingRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	// Session-less by design: the provider authenticates with an HMAC
	// signature over the raw body.
	router.POST("/coins/webhook", settlementHandler.Webhook)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/coins/balance", ledgerHandler.GetBalance)
		protected.GET("/coins/transactions", ledgerHandler.ListTransactions)
		protected.POST("/coins/recharge", settlementHandler.Recharge)
		protected.POST("/coins/order/validate", settlementHandler.Validate)
		protected.POST("/coins/payment/status", settlementHandler.Status)

		protected.POST("/property", propertyHandler.Post)
		protected.GET("/property/:id/contact", propertyHandler.Contact)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/pricing", pricingHandler.Get)
		admin.PATCH("/pricing", pricingHandler.Update)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
