package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	cs, total, err := h.categories.List(c.Request.Context(), q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(cs, total, q.Page, q.Size)))
}

// Get GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.CategoryNotFound)
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cat))
}
