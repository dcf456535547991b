package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
)

// AdminOrderHandler 全量订单管理与营收报表
type AdminOrderHandler struct {
	orders *service.OrderService
}

func NewAdminOrderHandler(orders *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// List GET /orders?status=PENDING
func (h *AdminOrderHandler) List(c *gin.Context) {
	var q struct {
		pageQuery
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	status := domain.OrderStatus(q.Status)
	if q.Status != "" && !status.Valid() {
		writeErr(c, apperr.OrderStatusInvalid)
		return
	}

	os, total, err := h.orders.AdminList(c.Request.Context(), status, q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(os, total, q.Page, q.Size)))
}

// Get GET /orders/:id
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.OrderNotFound)
		return
	}
	o, err := h.orders.AdminGet(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(o))
}

// UpdateStatus PUT /orders/:id/status
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.OrderNotFound)
		return
	}
	var in service.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := h.orders.UpdateStatus(c.Request.Context(), id, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(o))
}

// MonthlyStats GET /statistics/monthly
func (h *AdminOrderHandler) MonthlyStats(c *gin.Context) {
	stats, err := h.orders.MonthlyStatistics(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	if stats == nil {
		stats = []repo.MonthlyStats{} // 没有订单也回空数组而不是空对象
	}
	c.JSON(http.StatusOK, resp.OK(stats))
}
