package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	resp "wineshop/internal/transport/http/response"
)

// pageQuery page 从 0 计，size 上限 100
type pageQuery struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=20"`
}

func (q *pageQuery) normalize() {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}
}

func (q *pageQuery) offset() int { return q.Page * q.Size }

// pathID 解析 :id，0 表示非法
func pathID(c *gin.Context, name string) uint64 {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// writeErr 业务错误走 apperr 映射，其余 500
func writeErr(c *gin.Context, err error) {
	status, body := resp.FromErr(err)
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, msg))
}
