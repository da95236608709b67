// internal/router/router.go
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/handlers"
	"github.com/javajoker/product-inventory/internal/i18n"
	"github.com/javajoker/product-inventory/internal/metrics"
	"github.com/javajoker/product-inventory/internal/middleware"
	"github.com/javajoker/product-inventory/internal/services"
	"github.com/javajoker/product-inventory/internal/utils"
)

const Version = "1.0.0"

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	// Request bodies with unknown fields are rejected.
	binding.EnableDecoderDisallowUnknownFields = true

	// Initialize services
	jwtManager := utils.NewJWTManager(cfg.JWT)
	storageService, err := services.NewStorageService(cfg.AWS, cfg.Storage)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, jwtManager)
	oauthService := services.NewGoogleOAuthService(cfg.OAuth)
	productService := services.NewProductService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, oauthService, handlers.SessionCookie{
		Name:   cfg.JWT.CookieName,
		MaxAge: int(jwtManager.TTL().Seconds()),
		Secure: cfg.IsProduction(),
	}, cfg.Frontend.BaseURL)
	productHandler := handlers.NewProductHandler(productService, storageService, cfg.Pagination)
	healthHandler := handlers.NewHealthHandler(db, Version)

	authenticator := middleware.NewAuthenticator(jwtManager, cfg.JWT.CookieName)
	generalLimiter := middleware.NewGeneralRateLimiter(cfg.RateLimit)
	authLimiter := middleware.NewAuthRateLimiter(cfg.RateLimit)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimiter.Middleware())
	r.Use(authenticator.Optional())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", metrics.Handler())

	if !storageService.UsesS3() {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Authentication routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
		auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authenticator.Required(), authHandler.Me)
		auth.GET("/google", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Product routes
	products := r.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/sku/:sku", productHandler.GetProductBySku)
		products.GET("/:id", productHandler.GetProduct)

		protected := products.Group("")
		protected.Use(authenticator.Required())
		{
			protected.POST("", productHandler.CreateProduct)
			protected.POST("/upload-image", productHandler.UploadImage)
			protected.PATCH("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeleteProduct)
		}
	}

	return r, nil
}
