// Package chatsvc - handoff coordinator: chuyển phiên bot→human và ngược lại.
package chatsvc

import (
	"context"
	"strings"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// handoffIdempotenceWindow trong cửa sổ này, yêu cầu handoff lặp lại là no-op
	handoffIdempotenceWindow = 5 * time.Minute
	// HandoffClientCooldownSec hint cooldown trả về cho widget (giây)
	HandoffClientCooldownSec = 12
	// summaryMessageCount số tin nhắn không-noise đưa vào summary
	summaryMessageCount = 12
	// summaryMaxChars giới hạn độ dài summary
	summaryMaxChars = 1400
)

// resumePhrases cụm từ khách gõ để kích hoạt lại AI khi đang paused
var resumePhrases = []string{
	"reprendre ia",
	"reactiver ia",
	"réactiver ia",
	"retour ia",
	"retour assistant",
}

// IsResumePhrase kiểm tra text là cụm từ "resume AI"
func IsResumePhrase(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range resumePhrases {
		if normalized == phrase {
			return true
		}
	}
	return false
}

// BuildHandoffSummary dựng transcript tóm tắt cho admin tiếp nhận:
// mỗi tin nhắn tag theo nguồn, nối bằng " | ", cắt tại summaryMaxChars.
func BuildHandoffSummary(messages []chatmodels.ChatMessage) string {
	parts := make([]string, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		if IsNoise(m) {
			continue
		}
		var tag string
		switch m.Sender {
		case chatmodels.SenderUser:
			tag = "[CLIENT]"
		case chatmodels.SenderAI, chatmodels.SenderBot:
			tag = "[IA]"
		default:
			tag = "[AUTRE]"
		}
		parts = append(parts, tag+" "+m.Text)
	}
	summary := strings.Join(parts, " | ")
	if len(summary) > summaryMaxChars {
		summary = summary[:summaryMaxChars]
	}
	return summary
}

// recentHumanRequestFilter khớp các tin nhắn human_request của phiên nằm trong
// cửa sổ idempotence tính từ now. Có kết quả khớp ⇒ yêu cầu mới là no-op.
func recentHumanRequestFilter(chatID string, now time.Time) bson.M {
	cutoff := SortKeyFromMillis(now.Add(-handoffIdempotenceWindow).UnixMilli())
	return bson.M{
		"chatId":    chatID,
		"type":      chatmodels.TypeHumanRequest,
		"createdAt": bson.M{"$gt": cutoff},
	}
}

// HandoffService điều phối chuyển phiên giữa bot/AI và admin.
type HandoffService struct {
	sessionService *SessionService
	messageService *MessageService
}

// NewHandoffService tạo mới HandoffService
func NewHandoffService() (*HandoffService, error) {
	sessionService, err := NewSessionService()
	if err != nil {
		return nil, err
	}
	messageService, err := NewMessageService()
	if err != nil {
		return nil, err
	}
	return &HandoffService{
		sessionService: sessionService,
		messageService: messageService,
	}, nil
}

// RequestHuman chuyển phiên sang human: idempotent trong 5 phút — nếu đã có
// tin nhắn human_request gần đây thì chỉ đảm bảo phiên (vẫn) paused, không
// ghi thêm request/summary. Trả về số giây cooldown hint cho widget.
func (s *HandoffService) RequestHuman(ctx context.Context, chatID string) (int, error) {
	session, err := s.sessionService.FindByID(ctx, chatID)
	if err != nil {
		return 0, err
	}
	if session.Status == chatmodels.ChatStatusClosed {
		return 0, common.ErrChatClosed
	}

	count, err := s.messageService.CountDocuments(ctx, recentHumanRequestFilter(chatID, time.Now()))
	if err != nil {
		return 0, err
	}

	if count > 0 {
		// Đã có yêu cầu gần đây: chỉ đảm bảo trạng thái paused
		if !session.AIPaused || session.Status != chatmodels.ChatStatusHuman {
			if err := s.markPaused(ctx, chatID, 0); err != nil {
				return 0, err
			}
		}
		return HandoffClientCooldownSec, nil
	}

	// Tin nhắn yêu cầu của khách
	if _, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderUser,
		Type:   chatmodels.TypeHumanRequest,
		Text:   "Je souhaite parler a un conseiller.",
	}); err != nil {
		return 0, err
	}

	// Summary cho admin tiếp nhận
	recent, err := s.messageService.LastNonNoise(ctx, chatID, summaryMessageCount)
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [HANDOFF] Không dựng được summary")
		recent = nil
	}
	summary := BuildHandoffSummary(recent)

	if err := s.markPaused(ctx, chatID, time.Now().UnixMilli()); err != nil {
		return 0, err
	}
	if summary != "" {
		if _, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
			Set: map[string]interface{}{"handoffSummary": summary},
		}, nil); err != nil {
			logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [HANDOFF] Không lưu được summary")
		}
	}

	// Xác nhận cho khách
	if _, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderSystem,
		Text:   "Un conseiller va vous repondre. L'assistant automatique est en pause.",
	}); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [HANDOFF] Không ghi được tin nhắn xác nhận")
	}

	logrus.WithField("chatId", chatID).Info("🤝 [HANDOFF] Phiên chuyển sang human")
	return HandoffClientCooldownSec, nil
}

// markPaused đặt phiên vào trạng thái human / aiPaused
func (s *HandoffService) markPaused(ctx context.Context, chatID string, requestedAt int64) error {
	set := map[string]interface{}{
		"status":   chatmodels.ChatStatusHuman,
		"aiPaused": true,
	}
	if requestedAt > 0 {
		set["humanRequestedAt"] = requestedAt
	}
	_, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{Set: set}, nil)
	return err
}

// ResumeAI kích hoạt lại trả lời tự động (chỉ khách gọi, qua resume phrase)
func (s *HandoffService) ResumeAI(ctx context.Context, chatID string) error {
	_, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":   chatmodels.ChatStatusBot,
			"aiPaused": false,
		},
	}, nil)
	if err != nil {
		return err
	}

	if _, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderSystem,
		Text:   "L'assistant automatique est de nouveau actif.",
	}); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [HANDOFF] Không ghi được thông báo resume")
	}

	logrus.WithField("chatId", chatID).Info("🤝 [HANDOFF] AI được kích hoạt lại")
	return nil
}

// Transfer chuyển phiên giữa hai admin: gỡ fromAdmin khỏi roster, thêm toAdmin,
// ghi lại dấu vết transfer và một admin_note (khách không thấy).
func (s *HandoffService) Transfer(ctx context.Context, chatID, fromAdmin, toAdmin string) error {
	if toAdmin == "" {
		return common.NewError(common.ErrCodeValidationInput, "Thiếu admin nhận chuyển", common.StatusBadRequest, nil)
	}

	// Hai update riêng: $pull và $addToSet không được trỏ cùng field trong một lệnh
	if fromAdmin != "" {
		if _, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
			Pull: map[string]interface{}{"activeAdmins": fromAdmin},
		}, nil); err != nil {
			return err
		}
	}
	_, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"assignedTo":    toAdmin,
			"transferredAt": time.Now().UnixMilli(),
			"transferredBy": fromAdmin,
		},
		AddToSet: map[string]interface{}{"activeAdmins": toAdmin},
	}, nil)
	if err != nil {
		return err
	}

	_, err = s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderAdminNote,
		Type:   chatmodels.TypeTransfer,
		Text:   "Transfert de " + fromAdmin + " vers " + toAdmin,
	})
	return err
}
