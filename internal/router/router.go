package router

import (
	"github.com/gin-gonic/gin"

	"fashion_store_v1_202608/internal/controller"
	"fashion_store_v1_202608/internal/middleware"
	"fashion_store_v1_202608/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	Auth    *controller.AuthController
	Product *controller.ProductController
	Order   *controller.OrderController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())

	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", ctls.Auth.Register)
			auth.POST("/login", ctls.Auth.Login)
		}

		// products 商品组：浏览公开，维护仅管理员
		products := api.Group("/products")
		{
			products.GET("", ctls.Product.List)
			products.GET("/:id", ctls.Product.GetByID)

			admin := products.Group("")
			admin.Use(middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
			{
				admin.POST("", ctls.Product.Create)
				admin.PUT("/:id", ctls.Product.Update)
				admin.DELETE("/:id", ctls.Product.Delete)
			}
		}

		// orders 订单组：下单与查询需登录，流转仅管理员
		orders := api.Group("/orders")
		orders.Use(middleware.JWTAuth())
		{
			orders.POST("/make_order", ctls.Order.MakeOrder)
			orders.GET("/my_orders", ctls.Order.MyOrders)

			admin := orders.Group("")
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			{
				admin.GET("/admin_orders", ctls.Order.AdminOrders)
				admin.PUT("/accept_order/:order_id", ctls.Order.Accept)
				admin.PUT("/complete_order/:order_id", ctls.Order.Complete)
			}
		}
	}

	return r
}
