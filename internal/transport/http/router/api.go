package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wineshop/internal/core/auth"
	"wineshop/internal/transport/http/handler"
	mdw "wineshop/internal/transport/http/middleware"
)

// APIDeps 用户端引擎的全部依赖，由 main 组装
type APIDeps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Denylist auth.Denylist

	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Chat     *handler.ChatHandler
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		cors.Default(),
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 前缀；Timeout 不能罩 ws 长连接，只挂 REST 分组
	api := r.Group("/api/v1")
	api.Use(mdw.Timeout(10 * time.Second))

	// 公共路由；登录注册另加每 IP 限速防暴力尝试
	loginGuard := mdw.RateLimitPerIP(5, 10)
	api.POST("/auth/register", loginGuard, d.Auth.Register)
	api.POST("/auth/login", loginGuard, d.Auth.Login)
	api.GET("/auth/activate", d.Auth.Activate)

	api.GET("/products", d.Products.List)
	api.GET("/products/:id", d.Products.Get)
	api.GET("/products/:id/reviews", d.Products.ListReviews)
	api.GET("/categories", d.Category.List)
	api.GET("/categories/:id", d.Category.Get)

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer, d.Denylist))

	authed.POST("/auth/logout", d.Auth.Logout)
	authed.GET("/auth/verify", d.Auth.Verify)
	authed.GET("/users/me", d.Users.Me)
	authed.PUT("/users/me", d.Users.UpdateMe)

	authed.GET("/cart", d.Cart.Get)
	authed.DELETE("/cart", d.Cart.Clear)
	authed.POST("/cart/items", d.Cart.AddItem)
	authed.PUT("/cart/items", d.Cart.UpdateItem)
	authed.DELETE("/cart/items/:productId", d.Cart.RemoveItem)

	authed.POST("/orders", d.Orders.Place)
	authed.GET("/orders", d.Orders.History)
	authed.GET("/orders/:id", d.Orders.Get)
	authed.POST("/orders/:id/cancel", d.Orders.Cancel)

	authed.POST("/products/:id/reviews", d.Products.CreateReview)

	authed.GET("/chat/history", d.Chat.History)

	// ws 分组：要鉴权但不限时
	wsGroup := r.Group("/api/v1")
	wsGroup.Use(mdw.AuthJWT(d.JWTer, d.Denylist))
	wsGroup.GET("/chat/ws", d.Chat.WS)

	return r
}
