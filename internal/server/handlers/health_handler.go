package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports service liveness. It never touches the store.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
