package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
)

type AdminUserHandler struct {
	users *service.UserService
}

func NewAdminUserHandler(users *service.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// List GET /users
func (h *AdminUserHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	us, total, err := h.users.List(c.Request.Context(), q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(us, total, q.Page, q.Size)))
}

// Get GET /users/:id
func (h *AdminUserHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.UserNotExist)
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}
