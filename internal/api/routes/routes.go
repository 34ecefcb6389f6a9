// Package routes defines the HTTP routes for the card service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/card-service/internal/api/dto"
	"github.com/unifiedui/card-service/internal/api/handlers"
	"github.com/unifiedui/card-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	CatalogHandler *handlers.CatalogHandler
	CardsHandler   *handlers.CardsHandler
	// RateLimiter guards the routes that call the generation and delivery backends. Optional.
	RateLimiter *middleware.RateLimiter
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group(dto.APIBasePath)
	{
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		v1.GET("/styles", cfg.CatalogHandler.GetStyles)
		v1.GET("/recipients", cfg.CatalogHandler.SearchRecipients)

		cards := v1.Group("/cards")
		{
			// Generation and delivery spend backend quota
			limited := cards.Group("")
			if cfg.RateLimiter != nil {
				limited.Use(cfg.RateLimiter.Limit())
			}
			limited.POST("/generate", cfg.CardsHandler.GenerateCard)
			limited.POST("/regenerate/text", cfg.CardsHandler.RegenerateText)
			limited.POST("/regenerate/image", cfg.CardsHandler.RegenerateImage)
			limited.POST("/send", cfg.CardsHandler.SendCard)

			sessions := cards.Group("/sessions/:sessionId")
			{
				sessions.GET("", cfg.CardsHandler.GetSession)
				sessions.GET("/images/:imageId", cfg.CardsHandler.GetImage)
				sessions.GET("/events", cfg.CardsHandler.GetSessionEvents)
			}

			cards.GET("/deliveries/:deliveryId", cfg.CardsHandler.GetDelivery)
		}
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors gin.HandlerFunc) {
	r.Use(loggingMw.RequestID())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	if cors != nil {
		r.Use(cors)
	}

	Setup(r, cfg)
}
