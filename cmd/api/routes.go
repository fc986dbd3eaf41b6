package main

import (
	"marketplace-properties/internal/auth"
	"marketplace-properties/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.Router.GET("/health", a.HealthHandler.Health)
	a.setupAPIRoutes()
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	authenticated := middleware.AuthMiddleware(a.Config.JWT.Secret)

	api := a.Router.Group("/api")
	{
		// Public reads
		properties := api.Group("/properties")
		{
			properties.GET("", a.PropertyHandler.GetProperties)
			properties.GET("/featured", a.PropertyHandler.GetFeaturedProperties)
			properties.GET("/statistics", a.PropertyHandler.GetStatistics)
			properties.GET("/:id", a.PropertyHandler.GetPropertyByID)
			properties.GET("/:id/similar", a.PropertyHandler.GetSimilarProperties)
		}

		// Broker and admin writes
		writes := api.Group("/properties", authenticated, middleware.RequireRole(auth.RoleBroker, auth.RoleAdmin))
		{
			writes.POST("", a.PropertyHandler.CreateProperty)
			writes.PUT("/:id", a.PropertyHandler.UpdateProperty)
			writes.DELETE("/:id", a.PropertyHandler.DeleteProperty)
		}

		admin := api.Group("/admin", authenticated, middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/cache", a.CacheHandler.ClearCache)
			admin.GET("/cache", a.CacheHandler.CacheHealth)
		}
	}
}
