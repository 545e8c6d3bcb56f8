package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-terminal/backend"
	"pos-terminal/middlewares"
	"pos-terminal/models"
	"pos-terminal/orders"
)

var (
	ordersView    *orders.View
	backendClient backend.Client
)

// SetOrderDependencies wires the staff-screen handlers.
func SetOrderDependencies(v *orders.View, b backend.Client) {
	ordersView = v
	backendClient = b
}

// GetActiveOrders lists tracked orders under a status filter. Passing
// ?status= also switches the view's current tab.
func GetActiveOrders(c *gin.Context) {
	filter := ordersView.Filter()
	if raw, present := c.GetQuery("status"); present {
		parsed, ok := models.ParseFilter(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		filter = parsed
		ordersView.SetFilter(parsed)
	}

	counts := gin.H{}
	for f, n := range ordersView.Counts() {
		counts[string(f)] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":  ordersView.OrdersFor(filter),
		"filter":  filter,
		"counts":  counts,
		"loading": ordersView.Loading(),
	})
}

// RefreshOrders forces a refetch from the backend.
func RefreshOrders(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("refetch", status)
	}()

	if err := ordersView.Refetch(c.Request.Context()); err != nil {
		// Stale data stays visible; the client may retry.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": ordersView.Orders(), "loading": false})
}

// EditOrder forwards an order edit to the backend and refreshes the view.
func EditOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("edit", status)
	}()

	fullID := c.Param("id")

	var request models.OrderSubmission
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(request.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one item"})
		return
	}

	if err := backendClient.UpdateOrder(c.Request.Context(), fullID, request); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": apiErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to reach backend"})
		return
	}

	if err := ordersView.Refetch(c.Request.Context()); err != nil {
		// The edit went through; the next poll will catch the view up.
		c.JSON(http.StatusOK, gin.H{"success": true, "stale": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// KitchenAction requests a status transition for an order (start cooking,
// mark ready, complete, cancel). The transition is validated against the
// lifecycle table and then forwarded; the view itself only changes when the
// backend reports the new status back.
func KitchenAction(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("kitchen_action", status)
	}()

	fullID := c.Param("id")

	order, ok := ordersView.Get(fullID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var request struct {
		Status models.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, known := request.Status.Canonical(); !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}
	if !models.CanTransition(order.Status, request.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		return
	}

	if err := backendClient.UpdateOrderStatus(c.Request.Context(), fullID, request.Status); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reach backend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status update requested", "order_id": fullID})
}
