package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fashion_store_v1_202608/internal/service"
)

// respondError 统一的业务错误到 HTTP 状态码映射。
// 持久层错误不向调用方透出内部细节，完整信息留在服务端日志里。
func respondError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		stockErr      *service.StockError
		transitionErr *service.TransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": validationErr.Error()})
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSizeNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"code":       409,
			"message":    stockErr.Error(),
			"product_id": stockErr.ProductID,
			"size_value": stockErr.SizeValue,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"code": 409, "message": transitionErr.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"code": 409, "message": err.Error()})
	case errors.Is(err, service.ErrInvalidLogin):
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "服务器内部错误"})
	}
}
