package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/middleware"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/service"
)

// OrderController 订单控制器
type OrderController struct {
	svc *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(svc *service.OrderService) *OrderController {
	return &OrderController{svc: svc}
}

// ==================== 下单 ====================

// MakeOrder 下单
// POST /api/orders/make_order
func (ctl *OrderController) MakeOrder(c *gin.Context) {
	var req dto.PlaceOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请求格式错误: " + err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)
	order, err := ctl.svc.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "下单成功",
		"data": dto.PlaceOrderResp{
			OrderID: order.ID,
			Total:   order.GetTotal(),
		},
	})
}

// ==================== 查询 ====================

// MyOrders 当前用户的订单
// GET /api/orders/my_orders
func (ctl *OrderController) MyOrders(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	orders, err := ctl.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toOrderRespList(orders),
	})
}

// AdminOrders 全部订单（管理端）
// GET /api/orders/admin_orders
func (ctl *OrderController) AdminOrders(c *gin.Context) {
	orders, err := ctl.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toOrderRespList(orders),
	})
}

// ==================== 生命周期流转 ====================

// Accept 接单：processing → accepted
// PUT /api/orders/accept_order/:order_id
func (ctl *OrderController) Accept(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的订单ID"})
		return
	}

	if err := ctl.svc.Accept(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "订单已接单",
		"data":    gin.H{"order_id": id, "status": model.OrderStatusAccepted},
	})
}

// Complete 完成订单：accepted → completed
// PUT /api/orders/complete_order/:order_id
func (ctl *OrderController) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的订单ID"})
		return
	}

	if err := ctl.svc.Complete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "订单已完成",
		"data":    gin.H{"order_id": id, "status": model.OrderStatusCompleted},
	})
}

func toOrderRespList(orders []model.Order) []dto.OrderResp {
	list := make([]dto.OrderResp, 0, len(orders))
	for i := range orders {
		list = append(list, service.ToOrderResp(&orders[i]))
	}
	return list
}
