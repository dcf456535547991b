package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/service"
	mdw "wineshop/internal/transport/http/middleware"
	resp "wineshop/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewAuthHandler(users *service.UserService, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{users: users, auth: auth}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(u))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

// Logout POST /auth/logout（鉴权路由）
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := mdw.Claims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"loggedOut": true}))
}

// Verify GET /auth/verify 令牌有效性探测（鉴权路由）
func (h *AuthHandler) Verify(c *gin.Context) {
	claims := mdw.Claims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
		return
	}
	u, err := h.auth.Verify(c.Request.Context(), claims)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"valid": true, "username": u.Username, "role": u.Role}))
}

// Activate GET /auth/activate?token=xxx 邮件里的激活链接
func (h *AuthHandler) Activate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		badRequest(c, "token is required")
		return
	}
	if err := h.auth.Activate(c.Request.Context(), token); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"activated": true}))
}
