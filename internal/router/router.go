package router

import (
	"time"

	"farmstore/config"
	"farmstore/internal/handler"
	"farmstore/internal/middleware"
	"farmstore/internal/repository"
	"farmstore/internal/service"
	"farmstore/pkg/gateway"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider gateway.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// registered after AuthRequired on protected groups so the limiter
	// keys by user id there; public routes fall back to client IP
	rateMw := middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	pricingSvc := service.NewPricingService(&cfg.Checkout)
	checkoutSvc := service.NewCheckoutService(cfg, provider, intentRepo, orderRepo, cartRepo, auditRepo, pricingSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(userRepo)
	productHandler := handler.NewProductHandler(productRepo)
	cartHandler := handler.NewCartHandler(cartRepo, productRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc, userRepo)
	orderHandler := handler.NewOrderHandler(orderRepo)
	webhookHandler := handler.NewGatewayWebhookHandler(checkoutSvc, auditRepo, cfg)
	adminHandler := handler.NewAdminHandler(productRepo, orderRepo, intentRepo, auditRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateMw)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		api.GET("/products", rateMw, productHandler.List)
		api.GET("/products/:id", rateMw, productHandler.Get)

		me := api.Group("/me")
		me.Use(authMw, rateMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.GET("/addresses", meHandler.ListAddresses)
			me.POST("/addresses", meHandler.AddAddress)
			me.PUT("/addresses/:id", meHandler.UpdateAddress)
			me.DELETE("/addresses/:id", meHandler.DeleteAddress)
		}

		cart := api.Group("/cart")
		cart.Use(authMw, rateMw)
		{
			cart.GET("", cartHandler.List)
			cart.PUT("", cartHandler.Put)
			cart.DELETE("/:product_id", cartHandler.Remove)
			cart.DELETE("", cartHandler.Clear)
		}

		checkout := api.Group("/checkout")
		checkout.Use(authMw, rateMw)
		{
			checkout.GET("/quote", checkoutHandler.Quote)
			checkout.POST("/intent", checkoutHandler.CreateIntent)
			checkout.POST("/intent/:id/cancel", checkoutHandler.Cancel)
			checkout.POST("/finalize", checkoutHandler.Finalize)
		}

		orders := api.Group("/orders")
		orders.Use(authMw, rateMw)
		{
			orders.GET("", orderHandler.ListMine)
			orders.GET("/:id", orderHandler.Get)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, rateMw, middleware.AdminRequired())
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/payment-intents", adminHandler.ListIntents)
			admin.GET("/payment-audit", adminHandler.ListPaymentAudit)
		}

		api.POST("/webhooks/gateway", rateMw, webhookHandler.Handle)
	}

	return r
}
