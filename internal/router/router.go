package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealbook/backend/internal/api"
	"github.com/mealbook/backend/internal/middleware"
)

// SetupRouter configures the application routes. A nil limiter leaves
// meal creation unthrottled.
func SetupRouter(
	mealHandler *api.MealHandler,
	healthHandler *api.HealthHandler,
	limiter middleware.Limiter,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	// inside Metrics so recovered panics are still counted
	router.Use(middleware.Recovery())

	// CORS middleware
	router.Use(middleware.CORS())

	// Operational routes
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Meal routes
	var addMealMiddleware []gin.HandlerFunc
	if limiter != nil {
		addMealMiddleware = append(addMealMiddleware, middleware.RateLimit(limiter))
	}
	mealHandler.RegisterRoutes(router, addMealMiddleware...)

	router.NoRoute(middleware.NoRoute)

	return router
}
