package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/service"
)

// AuthController 认证控制器
type AuthController struct {
	svc *service.AuthService
}

// NewAuthController 创建认证控制器
func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// Register 注册
// POST /api/auth/register
func (ctl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请求格式错误: " + err.Error()})
		return
	}

	id, err := ctl.svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "注册成功",
		"data":    gin.H{"user_id": id},
	})
}

// Login 登录
// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请求格式错误: " + err.Error()})
		return
	}

	resp, err := ctl.svc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    resp,
	})
}
