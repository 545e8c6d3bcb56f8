package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-terminal/backend"
	"pos-terminal/cart"
	"pos-terminal/catalog"
	"pos-terminal/middlewares"
	"pos-terminal/notify"
)

var (
	cartStore *cart.Store
	menu      *catalog.Catalog
	slot      *notify.Slot
)

// SetCartDependencies wires the waiter-screen handlers.
func SetCartDependencies(s *cart.Store, m *catalog.Catalog, n *notify.Slot) {
	cartStore = s
	menu = m
	slot = n
}

// GetMenu returns the product catalog.
func GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": menu.Products()})
}

// GetCart returns the current cart lines and total.
func GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartState())
}

// AddCartItem adds one unit of a catalog product to the cart.
func AddCartItem(c *gin.Context) {
	var request struct {
		ProductID int `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, ok := menu.Get(request.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	cartStore.AddItem(product)
	c.JSON(http.StatusOK, cartState())
}

// ChangeCartItem adjusts a line's quantity by a signed delta. A line reaching
// zero disappears from the cart.
func ChangeCartItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var request struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartStore.ChangeQuantity(productID, request.Delta)
	c.JSON(http.StatusOK, cartState())
}

// SetCartNote attaches a free-text note to a line already in the cart. An
// empty note clears it. Unknown products are left untouched.
func SetCartNote(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var request struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartStore.SetNote(productID, request.Note)
	c.JSON(http.StatusOK, cartState())
}

// SubmitCart snapshots the cart and sends it to the backend.
func SubmitCart(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("submit", status)
	}()

	var request struct {
		Table        string `json:"table" binding:"required"`
		CustomerName string `json:"customer_name"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := cartStore.Submit(c.Request.Context(), request.Table, request.CustomerName)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"notification": slot.Current()})
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, cart.ErrEmptyCustomerName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message, "notification": slot.Current()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reach backend", "notification": slot.Current()})
	}
}

// GetNotification returns the pending transient notification, if any.
func GetNotification(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notification": slot.Current()})
}

func cartState() gin.H {
	return gin.H{
		"items": cartStore.Lines(),
		"total": cartStore.Total(),
	}
}
