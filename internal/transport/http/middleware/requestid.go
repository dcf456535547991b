package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID 请求头、响应头、gin context 三处共用同一个 key
const KeyRequestID = "X-Request-ID"

// RequestID 透传调用方带来的 id，没有就发一个；
// 响应头回写，访问日志靠它把一次请求的多条日志串起来
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
