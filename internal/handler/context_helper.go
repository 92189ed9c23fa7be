package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mlvisio/track-api/internal/middleware"
	"github.com/mlvisio/track-api/internal/models"
)

// claimsFromContext returns the authenticated user's claims, or nil on
// unauthenticated routes.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
