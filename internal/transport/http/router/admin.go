package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wineshop/internal/core/auth"
	"wineshop/internal/domain"
	"wineshop/internal/transport/http/handler"
	mdw "wineshop/internal/transport/http/middleware"
)

// AdminDeps 管理端引擎依赖
type AdminDeps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Denylist auth.Denylist

	Auth     *handler.AuthHandler
	Products *handler.AdminProductHandler
	Category *handler.AdminCategoryHandler
	Orders   *handler.AdminOrderHandler
	Users    *handler.AdminUserHandler
	Chat     *handler.AdminChatHandler
	Maint    *handler.AdminMaintenanceHandler
}

func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

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

	// 登录不要求角色
	public := r.Group("/admin/v1")
	public.Use(mdw.Timeout(10 * time.Second))
	public.POST("/auth/login", d.Auth.Login)

	// 管理端 v1（统一要求 MANAGER / ADMIN 角色）
	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.Timeout(30*time.Second), // 批量导入导出给足余量
		mdw.AuthJWT(d.JWTer, d.Denylist, domain.RoleManager, domain.RoleAdmin),
	)

	admin.POST("/auth/logout", d.Auth.Logout)
	admin.GET("/auth/verify", d.Auth.Verify)

	admin.POST("/products", d.Products.Create)
	admin.PUT("/products/:id", d.Products.Update)
	admin.DELETE("/products/:id", d.Products.Delete)
	admin.DELETE("/products/:id/permanent", d.Products.Purge)
	admin.GET("/products/export", d.Products.Export)
	admin.POST("/products/import", d.Products.Import)
	admin.GET("/products/import", d.Products.ImportList)
	admin.GET("/products/import/:id", d.Products.ImportStatus)

	admin.POST("/categories", d.Category.Create)
	admin.PUT("/categories/:id", d.Category.Update)
	admin.DELETE("/categories/:id", d.Category.Delete)

	admin.GET("/orders", d.Orders.List)
	admin.GET("/orders/:id", d.Orders.Get)
	admin.PUT("/orders/:id/status", d.Orders.UpdateStatus)
	admin.GET("/statistics/monthly", d.Orders.MonthlyStats)

	admin.GET("/users", d.Users.List)
	admin.GET("/users/:id", d.Users.Get)

	admin.POST("/maintenance/cleanup", d.Maint.Cleanup)

	admin.GET("/chat/conversations", d.Chat.Conversations)
	admin.GET("/chat/users/:userId/history", d.Chat.History)

	// ws 分组：鉴权但不限时
	wsGroup := r.Group("/admin/v1")
	wsGroup.Use(mdw.AuthJWT(d.JWTer, d.Denylist, domain.RoleManager, domain.RoleAdmin))
	wsGroup.GET("/chat/ws", d.Chat.WS)

	return r
}
