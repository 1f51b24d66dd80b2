package worker

import (
	"context"
	"time"

	"bienfaire_commerce/internal/delivery"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/logger"
)

// DeliveryWorker lấy item pending từ delivery_queue và gửi webhook notification.
// Không chạy khi NOTIFY_WEBHOOK_URL chưa cấu hình.
type DeliveryWorker struct {
	queue     *delivery.Queue
	processor *delivery.Processor
	interval  time.Duration
	batchSize int
}

// NewDeliveryWorker tạo mới DeliveryWorker
func NewDeliveryWorker(interval time.Duration, batchSize int) (*DeliveryWorker, error) {
	queue, err := delivery.NewQueue()
	if err != nil {
		return nil, err
	}
	processor, err := delivery.NewProcessor()
	if err != nil {
		return nil, err
	}
	if interval < 1*time.Second {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &DeliveryWorker{
		queue:     queue,
		processor: processor,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Start chạy worker cho đến khi ctx bị huỷ
func (w *DeliveryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	if global.ServerConfig.NotifyWebhookURL == "" {
		log.Info("📦 [DELIVERY] NOTIFY_WEBHOOK_URL chưa cấu hình, Delivery Worker không chạy")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("📦 [DELIVERY] Starting Delivery Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("📦 [DELIVERY] Delivery Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("📦 [DELIVERY] Panic khi xử lý queue, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.runOnce(ctx)
			}()
		}
	}
}

// runOnce một lượt dequeue + gửi
func (w *DeliveryWorker) runOnce(ctx context.Context) {
	log := logger.GetAppLogger()

	items, err := w.queue.Dequeue(ctx, w.batchSize)
	if err != nil {
		log.WithError(err).Error("📦 [DELIVERY] Không dequeue được")
		return
	}
	for _, item := range items {
		if err := w.processor.ProcessQueueItem(ctx, item); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"idempotencyKey": item.IdempotencyKey,
				"retryCount":     item.RetryCount,
			}).Warn("📦 [DELIVERY] Gửi webhook thất bại, sẽ retry")
		}
	}
}
