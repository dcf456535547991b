package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	mdw "wineshop/internal/transport/http/middleware"
	resp "wineshop/internal/transport/http/response"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Place POST /orders 从购物车结算下单
func (h *OrderHandler) Place(c *gin.Context) {
	var in service.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := h.orders.Place(c.Request.Context(), mdw.UserID(c), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(o))
}

// History GET /orders
func (h *OrderHandler) History(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	os, total, err := h.orders.HistoryForUser(c.Request.Context(), mdw.UserID(c), q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(os, total, q.Page, q.Size)))
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.OrderNotFound)
		return
	}
	o, err := h.orders.GetForUser(c.Request.Context(), mdw.UserID(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(o))
}

// Cancel POST /orders/:id/cancel 仅限 PENDING
func (h *OrderHandler) Cancel(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.OrderNotFound)
		return
	}
	o, err := h.orders.Cancel(c.Request.Context(), mdw.UserID(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(o))
}
