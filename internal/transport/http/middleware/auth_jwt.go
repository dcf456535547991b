package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wineshop/internal/core/auth"
	resp "wineshop/internal/transport/http/response"
)

// 上下文键，handler 取当前请求人身份用
const (
	CtxClaims   = "claims"
	CtxUserID   = "userId"
	CtxUsername = "username"
	CtxRole     = "role"
)

// AuthJWT 签名校验 + 拒绝名单；requireRoles 非空时任一命中即放行
func AuthJWT(j *auth.JWTer, deny auth.Denylist, requireRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if deny != nil {
			revoked, derr := deny.IsRevoked(c.Request.Context(), claims.ID)
			if derr != nil || revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
				return
			}
		}
		if len(requireRoles) > 0 {
			allowed := false
			for _, role := range requireRoles {
				if claims.Scope == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}
		c.Set(CtxClaims, claims)
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Subject)
		c.Set(CtxRole, claims.Scope)
		c.Next()
	}
}

// UserID 从上下文取当前用户号，缺失说明路由没挂鉴权
func UserID(c *gin.Context) uint64 {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(uint64)
	return id
}

// Claims 取完整声明，登出要用 jti 与过期时间
func Claims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(CtxClaims)
	cl, _ := v.(*auth.Claims)
	return cl
}
