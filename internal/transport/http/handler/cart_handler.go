package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	mdw "wineshop/internal/transport/http/middleware"
	resp "wineshop/internal/transport/http/response"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), mdw.UserID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cart))
}

// AddItem POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var in service.CartItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), mdw.UserID(c), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cart))
}

// UpdateItem PUT /cart/items
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var in service.CartItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	cart, err := h.carts.UpdateItem(c.Request.Context(), mdw.UserID(c), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cart))
}

// RemoveItem DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	pid := pathID(c, "productId")
	if pid == 0 {
		writeErr(c, apperr.ProductNotInCart)
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), mdw.UserID(c), pid)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cart))
}

// Clear DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), mdw.UserID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": true}))
}
