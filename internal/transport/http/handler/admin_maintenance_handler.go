package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/job"
	resp "wineshop/internal/transport/http/response"
)

// AdminMaintenanceHandler 清理任务手动触发口，不等下一个周期
type AdminMaintenanceHandler struct {
	scheduler *job.Scheduler
}

func NewAdminMaintenanceHandler(scheduler *job.Scheduler) *AdminMaintenanceHandler {
	return &AdminMaintenanceHandler{scheduler: scheduler}
}

// Cleanup POST /maintenance/cleanup
func (h *AdminMaintenanceHandler) Cleanup(c *gin.Context) {
	if err := h.scheduler.RunOnceNow(c.Request.Context()); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleaned": true}))
}
