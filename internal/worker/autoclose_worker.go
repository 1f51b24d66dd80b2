package worker

import (
	"context"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	chatsvc "bienfaire_commerce/internal/api/chat/service"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/logger"
)

// AutoCloseWorker tự đóng các phiên chat không hoạt động quá hạn cấu hình.
// Chạy định kỳ: quét phiên mở có lastMessageAt cũ hơn cutoff, đóng từng phiên
// và ghi notice + lời mời đánh giá.
type AutoCloseWorker struct {
	sessionService *chatsvc.SessionService
	messageService *chatsvc.MessageService
	interval       time.Duration
	idleHours      int
}

// NewAutoCloseWorker tạo mới AutoCloseWorker
func NewAutoCloseWorker(interval time.Duration) (*AutoCloseWorker, error) {
	sessionService, err := chatsvc.NewSessionService()
	if err != nil {
		return nil, err
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, err
	}

	if interval < 30*time.Second {
		interval = 1 * time.Minute
	}
	idleHours := global.ServerConfig.ChatAutoCloseHours
	if idleHours <= 0 {
		idleHours = 24
	}

	return &AutoCloseWorker{
		sessionService: sessionService,
		messageService: messageService,
		interval:       interval,
		idleHours:      idleHours,
	}, nil
}

// Start chạy worker cho đến khi ctx bị huỷ
func (w *AutoCloseWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"idleHours": w.idleHours,
	}).Info("⏰ [AUTO_CLOSE] Starting Auto Close Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [AUTO_CLOSE] Auto Close Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("⏰ [AUTO_CLOSE] Panic khi đóng phiên idle, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.runOnce(ctx)
			}()
		}
	}
}

// runOnce một lượt quét và đóng phiên idle
func (w *AutoCloseWorker) runOnce(ctx context.Context) {
	log := logger.GetAppLogger()

	cutoff := time.Now().Add(-time.Duration(w.idleHours) * time.Hour).UnixMilli()
	sessions, err := w.sessionService.FindIdleOpenSessions(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("⏰ [AUTO_CLOSE] Không quét được phiên idle")
		return
	}
	if len(sessions) == 0 {
		return
	}

	closed := 0
	for _, session := range sessions {
		hadRating := session.Rating != 0
		if _, err := w.sessionService.Close(ctx, session.ID); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{"chatId": session.ID}).Warn("⏰ [AUTO_CLOSE] Không đóng được phiên")
			continue
		}
		if _, err := w.messageService.Append(ctx, chatmodels.ChatMessage{
			ChatID: session.ID,
			Sender: chatmodels.SenderSystem,
			Text:   "La conversation a ete cloturee automatiquement apres une periode d'inactivite.",
		}); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{"chatId": session.ID}).Warn("⏰ [AUTO_CLOSE] Không ghi được notice")
		}
		if !hadRating {
			if _, err := w.messageService.Append(ctx, chatmodels.ChatMessage{
				ChatID: session.ID,
				Sender: chatmodels.SenderBot,
				Type:   chatmodels.TypeRatingRequest,
				Text:   "Comment evaluez-vous cet echange ? (1 a 5 etoiles)",
			}); err != nil {
				log.WithError(err).WithFields(map[string]interface{}{"chatId": session.ID}).Warn("⏰ [AUTO_CLOSE] Không ghi được lời mời đánh giá")
			}
		}
		closed++
	}

	log.WithFields(map[string]interface{}{
		"closedCount": closed,
		"idleHours":   w.idleHours,
	}).Info("⏰ [AUTO_CLOSE] Đã đóng phiên idle")
}
