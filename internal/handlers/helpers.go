package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's id, or 0 when the
// request carries no valid principal.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
