package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
)

type AdminCategoryHandler struct {
	categories *service.CategoryService
}

func NewAdminCategoryHandler(categories *service.CategoryService) *AdminCategoryHandler {
	return &AdminCategoryHandler{categories: categories}
}

// Create POST /categories
func (h *AdminCategoryHandler) Create(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(cat))
}

// Update PUT /categories/:id
func (h *AdminCategoryHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.CategoryNotFound)
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), id, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(cat))
}

// Delete DELETE /categories/:id 在售商品仍引用时拒绝
func (h *AdminCategoryHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.CategoryNotFound)
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"deleted": true}))
}
