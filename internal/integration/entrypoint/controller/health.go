// Package controller implements the HTTP handlers for the API.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check requests.
type HealthController struct{}

// NewHealthController creates a new health controller instance.
func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check handles GET /health.
func (ctrl *HealthController) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "expense-tracker-api",
	})
}
