package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/middleware"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
