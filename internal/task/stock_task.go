package task

import (
	"context"
	"time"

	"fashion_store_v1_202608/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== LowStockTask 低库存巡检任务 ====================

// LowStockTask 定时扫描低于阈值的尺码库存并告警
type LowStockTask struct {
	sizeRepo  repository.ProductSizeRepository
	cron      *cron.Cron
	logger    *zap.Logger
	spec      string
	threshold int
}

// NewLowStockTask 创建低库存巡检任务
func NewLowStockTask(sizeRepo repository.ProductSizeRepository, spec string, threshold int, logger *zap.Logger) *LowStockTask {
	return &LowStockTask{
		sizeRepo:  sizeRepo,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger,
		spec:      spec,
		threshold: threshold,
	}
}

// Start 启动定时任务
func (t *LowStockTask) Start() error {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.execute(ctx)
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	t.logger.Info("低库存巡检任务已启动",
		zap.String("spec", t.spec),
		zap.Int("threshold", t.threshold))
	return nil
}

// Stop 停止任务，等待正在执行的巡检结束
func (t *LowStockTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.logger.Info("低库存巡检任务已停止")
}

// execute 执行一次巡检
func (t *LowStockTask) execute(ctx context.Context) {
	rows, err := t.sizeRepo.ListLowStock(ctx, t.threshold)
	if err != nil {
		t.logger.Error("低库存巡检查询失败", zap.Error(err))
		return
	}

	if len(rows) == 0 {
		t.logger.Debug("低库存巡检完成，无低库存尺码")
		return
	}

	for _, row := range rows {
		t.logger.Warn("尺码库存告警",
			zap.Int64("product_id", row.ProductID),
			zap.String("product_name", row.ProductName),
			zap.String("size_value", row.SizeValue),
			zap.Int("stock", row.Stock))
	}
}
