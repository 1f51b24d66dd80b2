package worker

import (
	"context"
	"time"

	chatsvc "bienfaire_commerce/internal/api/chat/service"
	"bienfaire_commerce/internal/logger"
)

// NoiseCleanupWorker dọn định kỳ tin nhắn nhiễu (system, read_receipt, "vu")
// trên toàn bộ phiên để collection chat_messages không phình vô hạn.
type NoiseCleanupWorker struct {
	messageService *chatsvc.MessageService
	interval       time.Duration
}

// NewNoiseCleanupWorker tạo mới NoiseCleanupWorker
func NewNoiseCleanupWorker(interval time.Duration) (*NoiseCleanupWorker, error) {
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, err
	}
	if interval < 10*time.Minute {
		interval = 6 * time.Hour
	}
	return &NoiseCleanupWorker{
		messageService: messageService,
		interval:       interval,
	}, nil
}

// Start chạy worker cho đến khi ctx bị huỷ
func (w *NoiseCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🧹 [NOISE_CLEANUP] Starting Noise Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [NOISE_CLEANUP] Noise Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🧹 [NOISE_CLEANUP] Panic khi dọn noise, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				deleted, err := w.messageService.DeleteNoise(ctx, "")
				if err != nil {
					log.WithError(err).Error("🧹 [NOISE_CLEANUP] Không dọn được noise")
					return
				}
				if deleted > 0 {
					log.WithFields(map[string]interface{}{
						"deletedCount": deleted,
					}).Info("🧹 [NOISE_CLEANUP] Đã dọn tin nhắn nhiễu")
				}
			}()
		}
	}
}
