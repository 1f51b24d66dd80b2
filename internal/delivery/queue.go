// Package delivery - hàng đợi webhook notification và processor gửi đi.
// Enqueue không bao giờ block hay làm fail thao tác ghi tin nhắn: lỗi chỉ được log.
package delivery

import (
	"context"
	"fmt"
	"time"

	deliverymodels "bienfaire_commerce/internal/api/delivery/models"
	deliverysvc "bienfaire_commerce/internal/api/delivery/service"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/logger"

	"github.com/google/uuid"
)

// Queue xử lý việc enqueue và dequeue notification
type Queue struct {
	queueService *deliverysvc.DeliveryQueueService
}

// NewQueue tạo mới Queue
func NewQueue() (*Queue, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}
	return &Queue{queueService: queueService}, nil
}

// EnqueueNewUserMessage thêm thông báo "khách gửi tin nhắn mới" vào queue.
// No-op khi chưa cấu hình webhook URL. IdempotencyKey uuid mỗi lần enqueue.
func (q *Queue) EnqueueNewUserMessage(ctx context.Context, chatID, userName, userEmail, text string) {
	webhookURL := global.ServerConfig.NotifyWebhookURL
	if webhookURL == "" {
		return
	}
	log := logger.GetAppLogger()

	item := deliverymodels.NotificationQueueItem{
		IdempotencyKey: uuid.NewString(),
		WebhookURL:     webhookURL,
		Event:          deliverymodels.EventNewUserMessage,
		ChatID:         chatID,
		UserName:       userName,
		UserEmail:      userEmail,
		Text:           text,
		At:             time.Now().UnixMilli(),
		Status:         deliverymodels.QueueStatusPending,
		MaxRetries:     3,
	}

	if _, err := q.queueService.InsertOne(ctx, item); err != nil {
		// Fire-and-forget: không làm fail luồng ghi tin nhắn
		log.WithFields(map[string]interface{}{
			"chatId": chatID,
			"error":  err.Error(),
		}).Error("📦 [DELIVERY] Lỗi enqueue webhook notification")
		return
	}

	log.WithField("chatId", chatID).Debug("📦 [DELIVERY] Đã enqueue webhook notification")
}

// Dequeue lấy tối đa limit items chờ gửi và đánh dấu processing
func (q *Queue) Dequeue(ctx context.Context, limit int) ([]*deliverymodels.NotificationQueueItem, error) {
	items, err := q.queueService.FindPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]interface{}, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	if err := q.queueService.UpdateStatus(ctx, ids, deliverymodels.QueueStatusProcessing); err != nil {
		return nil, err
	}

	result := make([]*deliverymodels.NotificationQueueItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}
