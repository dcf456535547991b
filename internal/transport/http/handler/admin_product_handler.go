package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
)

// AdminProductHandler 管理端商品维护 + 批量导入导出
type AdminProductHandler struct {
	products *service.ProductService
	excel    *service.ExcelService
}

func NewAdminProductHandler(products *service.ProductService, excel *service.ExcelService) *AdminProductHandler {
	return &AdminProductHandler{products: products, excel: excel}
}

// Create POST /products
func (h *AdminProductHandler) Create(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(p))
}

// Update PUT /products/:id
func (h *AdminProductHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(p))
}

// Delete DELETE /products/:id 软删，幂等
func (h *AdminProductHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"deleted": true}))
}

// Purge DELETE /products/:id/permanent 被订单引用时拒绝
func (h *AdminProductHandler) Purge(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	if err := h.products.Purge(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"purged": true}))
}

// Export GET /products/export xlsx 下载
func (h *AdminProductHandler) Export(c *gin.Context) {
	data, err := h.excel.Export(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Import POST /products/import multipart 上传，立即返回任务号
func (h *AdminProductHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "excel file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeErr(c, apperr.ExcelImportFail)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeErr(c, apperr.ExcelImportFail)
		return
	}

	task, err := h.excel.StartImport(c.Request.Context(), fh.Filename, data)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp.OK(task))
}

// ImportList GET /products/import 近期任务列表
func (h *AdminProductHandler) ImportList(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	tasks, total, err := h.excel.ListTasks(c.Request.Context(), q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(tasks, total, q.Page, q.Size)))
}

// ImportStatus GET /products/import/:id 轮询任务状态
func (h *AdminProductHandler) ImportStatus(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.TaskNotFound)
		return
	}
	task, err := h.excel.TaskStatus(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(task))
}
