package delivery

import (
	"context"
	"fmt"
	"math"
	"time"

	deliverymodels "bienfaire_commerce/internal/api/delivery/models"
	deliverysvc "bienfaire_commerce/internal/api/delivery/service"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/delivery/channels"
	"bienfaire_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// Processor gửi các queue item ra webhook — chỉ lo delivery, payload đã dựng sẵn.
type Processor struct {
	queueService *deliverysvc.DeliveryQueueService
}

// NewProcessor tạo mới Processor
func NewProcessor() (*Processor, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}
	return &Processor{queueService: queueService}, nil
}

// ProcessQueueItem gửi một item; lỗi gửi được đưa qua retry logic.
func (p *Processor) ProcessQueueItem(ctx context.Context, item *deliverymodels.NotificationQueueItem) error {
	payload := &channels.WebhookPayload{
		Event:     item.Event,
		ChatID:    item.ChatID,
		UserName:  item.UserName,
		UserEmail: item.UserEmail,
		Text:      item.Text,
		At:        item.At,
	}
	body, err := payload.Marshal()
	if err != nil {
		return p.handleRetryOrFail(ctx, item, err)
	}

	if err := channels.SendWebhook(ctx, item.WebhookURL, body, SignPayload(body)); err != nil {
		return p.handleRetryOrFail(ctx, item, err)
	}

	_, err = p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": deliverymodels.QueueStatusSent,
		},
	}, nil)
	return err
}

// handleRetryOrFail: chưa hết retry → tăng retryCount, hẹn giờ backoff lũy thừa,
// reset về pending; hết retry → đánh dấu failed (lỗi webhook được nuốt,
// không bao giờ lan ra luồng chat).
func (p *Processor) handleRetryOrFail(ctx context.Context, item *deliverymodels.NotificationQueueItem, sendErr error) error {
	log := logger.GetAppLogger()
	item.RetryCount++

	if item.RetryCount < item.MaxRetries {
		backoffMs := int64(math.Pow(2, float64(item.RetryCount))) * 1000
		nextRetryAt := time.Now().UnixMilli() + backoffMs

		_, err := p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, &basesvc.UpdateData{
			Set: map[string]interface{}{
				"status":      deliverymodels.QueueStatusPending,
				"retryCount":  item.RetryCount,
				"nextRetryAt": nextRetryAt,
				"error":       sendErr.Error(),
			},
		}, nil)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"queueItemId": item.ID.Hex(),
				"error":       err.Error(),
			}).Error("📦 [DELIVERY] Không schedule được retry cho queue item")
		}
		return sendErr
	}

	_, err := p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": deliverymodels.QueueStatusFailed,
			"error":  sendErr.Error(),
		},
	}, nil)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"queueItemId": item.ID.Hex(),
			"error":       err.Error(),
		}).Error("📦 [DELIVERY] Không đánh dấu được queue item failed")
	}

	log.WithFields(map[string]interface{}{
		"queueItemId": item.ID.Hex(),
		"retryCount":  item.RetryCount,
		"error":       sendErr.Error(),
	}).Warn("📦 [DELIVERY] Webhook fail sau khi hết retry, bỏ qua")
	return nil
}
