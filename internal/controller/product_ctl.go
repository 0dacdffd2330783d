package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/service"
)

// ProductController 商品控制器
type ProductController struct {
	svc *service.ProductService
}

// NewProductController 创建商品控制器
func NewProductController(svc *service.ProductService) *ProductController {
	return &ProductController{svc: svc}
}

// ==================== 查询接口 ====================

// List 上架商品列表
// GET /api/products
func (ctl *ProductController) List(c *gin.Context) {
	products, err := ctl.svc.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    products,
	})
}

// GetByID 商品详情
// GET /api/products/:id
func (ctl *ProductController) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	product, err := ctl.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    product,
	})
}

// ==================== 管理接口 ====================

// Create 创建商品
// POST /api/products
func (ctl *ProductController) Create(c *gin.Context) {
	var req dto.CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请求格式错误: " + err.Error()})
		return
	}

	id, err := ctl.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "商品创建成功",
		"data":    dto.CreateProductResp{ProductID: id},
	})
}

// Update 部分更新商品
// PUT /api/products/:id
func (ctl *ProductController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	var req dto.UpdateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请求格式错误: " + err.Error()})
		return
	}

	if err := ctl.svc.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "商品更新成功"})
}

// Delete 删除商品（级联删除尺码）
// DELETE /api/products/:id
func (ctl *ProductController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	if err := ctl.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "商品及其尺码已删除"})
}
