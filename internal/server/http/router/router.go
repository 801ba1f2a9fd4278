package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/server/http/handlers"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketplaceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	reviewHandler := handlers.NewReviewHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.GET("/user/orders", orderHandler.BuyerOrders)
	authed.GET("/user/reviews", reviewHandler.UserReviews)
	authed.GET("/seller/orders", orderHandler.SellerOrders)

	authed.POST("/products", productHandler.Create)
	authed.GET("/products/:id", productHandler.Get)
	authed.GET("/products/:id/reviews", reviewHandler.ProductReviews)
	authed.GET("/products/:id/rating", reviewHandler.Rating)

	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	authed.PUT("/orders/:id/cancel", orderHandler.Cancel)

	authed.GET("/reviews/eligibility", reviewHandler.Eligibility)
	authed.POST("/reviews", reviewHandler.Create)
	authed.PUT("/reviews/:id", reviewHandler.Update)
	authed.DELETE("/reviews/:id", reviewHandler.Delete)

	return engine
}
