package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wineshop/internal/apperr"
	"wineshop/internal/repo"
	"wineshop/internal/service"
	mdw "wineshop/internal/transport/http/middleware"
	resp "wineshop/internal/transport/http/response"
)

// ProductHandler 面向顾客的商品目录与评价
type ProductHandler struct {
	products *service.ProductService
	reviews  *service.ReviewService
}

func NewProductHandler(products *service.ProductService, reviews *service.ReviewService) *ProductHandler {
	return &ProductHandler{products: products, reviews: reviews}
}

type productSearchQuery struct {
	pageQuery
	Name       string   `form:"name"`
	MinPrice   *float64 `form:"minPrice"`
	MaxPrice   *float64 `form:"maxPrice"`
	MinAlcohol *float64 `form:"minAlcohol"`
	MaxAlcohol *float64 `form:"maxAlcohol"`
	Categories []uint64 `form:"categoryId"`
}

// List GET /products 六个过滤条件全部可选，AND 组合
func (h *ProductHandler) List(c *gin.Context) {
	var q productSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	ps, total, err := h.products.Search(c.Request.Context(), repo.ProductFilter{
		Name:        q.Name,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinAlcohol:  q.MinAlcohol,
		MaxAlcohol:  q.MaxAlcohol,
		CategoryIDs: q.Categories,
		Offset:      q.offset(),
		Limit:       q.Size,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(ps, total, q.Page, q.Size)))
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(p))
}

// ListReviews GET /products/:id/reviews
func (h *ProductHandler) ListReviews(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	rvs, total, err := h.reviews.ListByProduct(c.Request.Context(), id, q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(rvs, total, q.Page, q.Size)))
}

// CreateReview POST /products/:id/reviews（鉴权路由）
func (h *ProductHandler) CreateReview(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		writeErr(c, apperr.ProductNotFound)
		return
	}
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	rv, err := h.reviews.Create(c.Request.Context(), mdw.UserID(c), id, in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(rv))
}
