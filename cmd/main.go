package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashion_store_v1_202608/internal/controller"
	"fashion_store_v1_202608/internal/middleware"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/repository"
	"fashion_store_v1_202608/internal/router"
	"fashion_store_v1_202608/internal/service"
	"fashion_store_v1_202608/internal/task"
	"fashion_store_v1_202608/pkg/config"
	"fashion_store_v1_202608/pkg/database"
	"fashion_store_v1_202608/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync()

	// 3. 初始化数据库
	db, err := initDatabase(cfg)
	if err != nil {
		zlog.Fatal("初始化数据库失败", zap.Error(err))
	}
	zlog.Info("数据库连接成功")

	// 4. JWT 配置
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTTL,
		Issuer:         cfg.JWT.Issuer,
	})

	// 5. 初始化依赖
	deps := initDependencies(db, cfg, zlog)

	// 6. 启动定时任务
	stopTasks := initTasks(deps, cfg, zlog)
	defer stopTasks()

	// 7. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(r, cfg.Server.Port, zlog)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Uow         *repository.StoreUnitOfWork
	Users       repository.UserRepository
	Services    *Services
	Controllers *router.Controllers
}

// Services 服务集合
type Services struct {
	Auth    *service.AuthService
	Product *service.ProductService
	Order   *service.OrderService
	Notify  *service.NotifyService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.InitDB(
		cfg.Database.DSN(),
		// 用户
		&model.User{},
		// 商品
		&model.Product{}, &model.ProductSize{},
		// 订单
		&model.Order{}, &model.OrderItem{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config, zlog *zap.Logger) *Dependencies {
	// -------- Repo 层 --------
	uow := repository.NewStoreUnitOfWork(db)
	userRepo := repository.NewUserRepository(db)

	// -------- Service 层 --------
	notifySvc := service.NewNotifyService(cfg.Webhook.OrderURL, zlog)
	services := &Services{
		Auth:    service.NewAuthService(userRepo, zlog),
		Product: service.NewProductService(uow, zlog),
		Order:   service.NewOrderService(uow, notifySvc, zlog),
		Notify:  notifySvc,
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:    controller.NewAuthController(services.Auth),
		Product: controller.NewProductController(services.Product),
		Order:   controller.NewOrderController(services.Order),
	}

	return &Dependencies{
		DB:          db,
		Uow:         uow,
		Users:       userRepo,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务，返回停止函数
func initTasks(deps *Dependencies, cfg *config.Config, zlog *zap.Logger) func() {
	if !cfg.Task.LowStockEnabled {
		return func() {}
	}

	lowStock := task.NewLowStockTask(
		deps.Uow.Sizes,
		cfg.Task.LowStockSpec,
		cfg.Task.LowStockThreshold,
		zlog,
	)
	if err := lowStock.Start(); err != nil {
		zlog.Fatal("启动低库存巡检任务失败", zap.Error(err))
	}

	return lowStock.Stop
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string, zlog *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		zlog.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("服务强制关闭", zap.Error(err))
	}

	zlog.Info("服务已退出")
}
