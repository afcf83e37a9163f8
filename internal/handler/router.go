package handler

import (
	"washworks-be/internal/logger"
	"washworks-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface. Everything except health and login
// requires a staff token; stock adjustments additionally require ADMIN.
func NewRouter(
	health *HealthHandler,
	auth *AuthHandler,
	catalog *CatalogHandler,
	orders *OrderHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", health.Health)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/register", auth.Register)
	}

	api := r.Group("/", middleware.AuthMiddleware())
	{
		api.GET("/branches", catalog.GetBranches)
		api.GET("/packages", catalog.GetPackages)
		api.GET("/products", catalog.GetProducts)
		api.GET("/products/:id", catalog.GetProduct)
		api.GET("/extra-works", catalog.GetExtraWorks)
		api.PATCH("/products/:id/stock", middleware.AdminOnly(), catalog.SetProductStock)

		api.GET("/orders", orders.GetOrders)
		api.POST("/orders", orders.CreateOrder)
		api.GET("/orders/:id", orders.GetOrder)
		api.PUT("/orders/:id", orders.UpdateOrder)
		api.PATCH("/orders/:id/status", orders.UpdateOrderStatus)
		api.POST("/orders/:id/start-work", orders.StartWork)
		api.GET("/orders/:id/start-work-inspections", orders.GetInspections)
		api.POST("/orders/:id/complete-work", orders.CompleteWork)
	}

	return r
}
