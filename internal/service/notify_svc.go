package service

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== NotifyService ====================

// NotifyService 订单事件 Webhook 推送。异步触发、尽力而为，
// 失败只记日志，绝不影响订单事务。URL 未配置时整体禁用。
type NotifyService struct {
	client     *resty.Client
	webhookURL string
	logger     *zap.Logger
}

// NewNotifyService 创建通知服务
func NewNotifyService(webhookURL string, logger *zap.Logger) *NotifyService {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(3)
	return &NotifyService{
		client:     client,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// orderEvent Webhook 载荷
type orderEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderStatusChanged 推送订单状态变化事件
func (s *NotifyService) OrderStatusChanged(orderID int64, status string) {
	if s.webhookURL == "" {
		return
	}

	event := orderEvent{
		EventID:    uuid.NewString(),
		OrderID:    orderID,
		Status:     status,
		OccurredAt: time.Now(),
	}

	go func() {
		resp, err := s.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(event).
			Post(s.webhookURL)
		if err != nil {
			s.logger.Warn("订单事件推送失败",
				zap.Int64("order_id", orderID),
				zap.String("status", status),
				zap.Error(err))
			return
		}
		if resp.StatusCode() >= 300 {
			s.logger.Warn("订单事件被对端拒绝",
				zap.Int64("order_id", orderID),
				zap.Int("http_status", resp.StatusCode()))
		}
	}()
}
