package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/plumekit/plume-backend/internal/services"
)

// SubscriptionHandler handles blog subscribe/unsubscribe HTTP requests
type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterSubscriptionRoutes registers subscription-related routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.POST("/blogs/:id/subscribe", h.Subscribe)
	g.POST("/blogs/:id/unsubscribe", h.Unsubscribe)
	g.GET("/blogs/subscriptions", h.GetStatuses)
}

// Subscribe follows a blog; re-subscribing is a no-op, not an error
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blogID, err := parseBlogID(c)
	if err != nil {
		return err
	}

	if err := h.subscriptions.Subscribe(currentUserID, blogID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"subscribed": true})
}

// Unsubscribe unfollows a blog; unsubscribing when absent is a no-op
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blogID, err := parseBlogID(c)
	if err != nil {
		return err
	}

	if err := h.subscriptions.Unsubscribe(currentUserID, blogID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"subscribed": false})
}

// GetStatuses returns a {blogID: subscribed} map across all blogs
func (h *SubscriptionHandler) GetStatuses(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	statuses, err := h.subscriptions.GetAllStatuses(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, statuses)
}
