package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealbook/backend/internal/types"
)

// Recovery turns a panic inside a handler into a JSON 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		panicRecoveries.Inc()
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Interner Fehler"})
	})
}

// NoRoute answers unknown paths with a JSON 404
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Nicht gefunden"})
}
