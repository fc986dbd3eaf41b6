package main

import (
	"time"

	"marketplace-properties/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// configure all middleware for the router
func (a *App) setupMiddleware() {
	// CORS middleware
	a.Router.Use(a.setupCORS())

	// Other middleware
	a.Router.Use(middleware.RequestID())
	a.Router.Use(middleware.MetricsMiddleware())
	a.Router.Use(middleware.LoggingMiddleware())
	a.Router.Use(middleware.RateLimitMiddleware(a.RateLimiter))
	a.Router.Use(middleware.SecureHeaders())
	a.Router.Use(middleware.ErrorHandler())
	a.Router.Use(gin.Recovery())
}

// configure CORS middleware
func (a *App) setupCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if a.Config.Server.Environment == "production" {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = a.Config.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.HeaderRequestID}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.ExposeHeaders = []string{"Content-Length", "Link", "X-Total-Count", middleware.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}
