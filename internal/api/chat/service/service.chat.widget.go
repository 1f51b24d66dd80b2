// Package chatsvc - widget service: mặt khách hàng của state machine chat.
package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// Cửa sổ chống spam: quá spamMaxMessages tin nhắn trong spamWindow ⇒ từ chối
	spamWindow      = 20 * time.Second
	spamMaxMessages = 5

	// PresenceIntervalSec nhịp heartbeat khuyến nghị cho widget (giây)
	PresenceIntervalSec = 25
	// PollIntervalSec nhịp polling feed khuyến nghị cho widget (giây)
	PollIntervalSec = 2
)

// spamThrottle cửa sổ trượt đếm tin nhắn theo chatId (in-memory, per-process)
type spamThrottle struct {
	mu      sync.Mutex
	history map[string][]time.Time
}

func newSpamThrottle() *spamThrottle {
	return &spamThrottle{history: make(map[string][]time.Time)}
}

// allow ghi nhận một lần gửi và trả về false khi vượt ngưỡng trong cửa sổ
func (t *spamThrottle) allow(chatID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-spamWindow)

	kept := t.history[chatID][:0]
	for _, ts := range t.history[chatID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= spamMaxMessages {
		t.history[chatID] = kept
		return false
	}
	t.history[chatID] = append(kept, now)
	return true
}

// WidgetService điều phối các thao tác của widget khách hàng.
type WidgetService struct {
	sessionService  *SessionService
	messageService  *MessageService
	handoffService  *HandoffService
	identityService *IdentityService
	replyEngine     *ReplyEngine
	bannedService   *basesvc.BaseServiceMongoImpl[chatmodels.BannedUser]
	throttle        *spamThrottle
}

// NewWidgetService tạo mới WidgetService
func NewWidgetService() (*WidgetService, error) {
	sessionService, err := NewSessionService()
	if err != nil {
		return nil, err
	}
	messageService, err := NewMessageService()
	if err != nil {
		return nil, err
	}
	handoffService, err := NewHandoffService()
	if err != nil {
		return nil, err
	}
	identityService, err := NewIdentityService()
	if err != nil {
		return nil, err
	}
	replyEngine, err := NewReplyEngine()
	if err != nil {
		return nil, err
	}
	bannedCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.BannedUsers)
	if !exist {
		return nil, fmt.Errorf("failed to get banned_users collection: %v", common.ErrNotFound)
	}
	return &WidgetService{
		sessionService:  sessionService,
		messageService:  messageService,
		handoffService:  handoffService,
		identityService: identityService,
		replyEngine:     replyEngine,
		bannedService:   basesvc.NewBaseServiceMongo[chatmodels.BannedUser](bannedCollection),
		throttle:        newSpamThrottle(),
	}, nil
}

// StartOrResume resolve id phiên từ danh tính và tạo/mở lại phiên.
// currentID là id phiên thiết bị đang giữ (rỗng nếu lần đầu).
func (s *WidgetService) StartOrResume(ctx context.Context, userName, userEmail, currentID string) (chatmodels.ChatSession, error) {
	chatID := ResolveSessionID(userEmail, currentID)
	session, err := s.sessionService.StartOrResume(ctx, chatID, userName, userEmail)
	if err != nil {
		return chatmodels.ChatSession{}, err
	}
	// Backfill danh tính cho phiên legacy thiếu tên/email (best-effort)
	if session.UserName == "" || session.UserEmail == "" {
		if err := s.identityService.Backfill(ctx, chatID); err == nil {
			if refreshed, findErr := s.sessionService.FindByID(ctx, chatID); findErr == nil {
				session = refreshed
			}
		}
	}
	return session, nil
}

// SendMessage ghi tin nhắn khách và chạy chuỗi trả lời tự động.
// Trả về các tin nhắn mới sinh ra (tin nhắn khách + câu trả lời nếu có).
func (s *WidgetService) SendMessage(ctx context.Context, chatID, text, senderName, senderEmail string, attachment *chatmodels.ChatMessage) ([]chatmodels.ChatMessage, error) {
	session, err := s.sessionService.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.Status == chatmodels.ChatStatusClosed {
		return nil, common.ErrChatClosed
	}

	if err := s.checkBanned(ctx, senderEmail, session.UserEmail); err != nil {
		return nil, err
	}
	if err := s.allowSend(chatID); err != nil {
		return nil, err
	}

	userMessage := chatmodels.ChatMessage{
		ChatID:      chatID,
		Sender:      chatmodels.SenderUser,
		Text:        text,
		SenderName:  senderName,
		SenderEmail: senderEmail,
	}
	if attachment != nil {
		userMessage.AttachmentName = attachment.AttachmentName
		userMessage.AttachmentURL = attachment.AttachmentURL
		userMessage.AttachmentSize = attachment.AttachmentSize
	}

	created, err := s.messageService.Append(ctx, userMessage)
	if err != nil {
		return nil, err
	}
	result := []chatmodels.ChatMessage{created}

	if err := s.sessionService.TouchLastMessage(ctx, chatID, chatmodels.SenderUser, text); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("💬 [WIDGET] Không cập nhật được lastMessage")
	}
	s.stampFirstUserMessage(ctx, &session)

	// Ngôn ngữ phát hiện được lưu lên phiên khi khác giá trị hiện tại
	if lang := DetectLanguage(text); lang != session.Language {
		s.sessionService.SetLanguage(ctx, chatID, lang)
	}

	// Khách đang chờ human: chỉ resume phrase mới kích hoạt lại trả lời tự động
	if session.AIPaused {
		if !IsResumePhrase(text) {
			return result, nil
		}
		if err := s.handoffService.ResumeAI(ctx, chatID); err != nil {
			logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("💬 [WIDGET] Lỗi resume AI")
			return result, nil
		}
	}

	// Chuỗi trả lời tự động
	history, err := s.messageService.LastNonNoise(ctx, chatID, 12)
	if err != nil {
		history = nil
	}
	candidate, err := s.replyEngine.Reply(ctx, text, history)
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Error("💬 [WIDGET] Reply engine fail")
		return result, nil
	}

	replyMessage, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: candidate.Sender,
		Type:   candidate.Type,
		Text:   candidate.Text,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Error("💬 [WIDGET] Không ghi được câu trả lời")
		return result, nil
	}
	if err := s.sessionService.TouchLastMessage(ctx, chatID, candidate.Sender, candidate.Text); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("💬 [WIDGET] Không cập nhật được lastMessage")
	}

	return append(result, replyMessage), nil
}

// allowSend áp cửa sổ chống spam cho mọi thao tác ghi của khách trên một
// phiên (gửi tin nhắn lẫn yêu cầu human) — rào chắn phía server cho cả
// client không phải widget.
func (s *WidgetService) allowSend(chatID string) error {
	if !s.throttle.allow(chatID) {
		return common.ErrChatThrottled
	}
	return nil
}

// checkBanned từ chối khách có email trong banned_users
func (s *WidgetService) checkBanned(ctx context.Context, emails ...string) error {
	for _, email := range emails {
		if email == "" {
			continue
		}
		count, err := s.bannedService.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			return err
		}
		if count > 0 {
			return common.ErrUserBanned
		}
	}
	return nil
}

// stampFirstUserMessage ghi firstUserMessageAt một lần duy nhất (mốc SLA)
func (s *WidgetService) stampFirstUserMessage(ctx context.Context, session *chatmodels.ChatSession) {
	if session.FirstUserMessageAt != 0 {
		return
	}
	_, err := s.sessionService.UpdateOne(ctx, bson.M{
		"_id":                session.ID,
		"firstUserMessageAt": bson.M{"$in": []interface{}{nil, int64(0)}},
	}, &basesvc.UpdateData{
		Set: map[string]interface{}{"firstUserMessageAt": time.Now().UnixMilli()},
	}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		logrus.WithFields(logrus.Fields{"chatId": session.ID, "error": err.Error()}).Debug("💬 [WIDGET] Không stamp được firstUserMessageAt")
	}
}

// Feed trả về tin nhắn mới cho widget (lọc noise + admin_note)
func (s *WidgetService) Feed(ctx context.Context, chatID, after string) ([]chatmodels.ChatMessage, error) {
	return s.messageService.Feed(ctx, chatID, after, AudienceCustomer)
}

// Presence heartbeat của khách
func (s *WidgetService) Presence(ctx context.Context, chatID string, online bool) error {
	return s.sessionService.Presence(ctx, chatID, online)
}

// RequestHuman chuyển phiên sang human qua handoff coordinator.
// Chia sẻ cửa sổ chống spam với SendMessage; tính idempotent của handoff
// do coordinator đảm nhiệm.
func (s *WidgetService) RequestHuman(ctx context.Context, chatID string) (int, error) {
	if err := s.allowSend(chatID); err != nil {
		return 0, err
	}
	return s.handoffService.RequestHuman(ctx, chatID)
}

// Rate lưu đánh giá của khách và ghi tin nhắn rating vào log
func (s *WidgetService) Rate(ctx context.Context, chatID string, rating int, comment string) error {
	if err := s.sessionService.Rate(ctx, chatID, rating, comment); err != nil {
		return err
	}
	_, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderUser,
		Type:   chatmodels.TypeRating,
		Text:   fmt.Sprintf("Note: %d/5", rating),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("💬 [WIDGET] Không ghi được tin nhắn rating")
	}
	return nil
}

// Suggestions trả về danh sách gợi ý nhanh theo ngôn ngữ phiên.
// Sau vài lượt trao đổi đầu, gợi ý chuyển sang các chủ đề sâu hơn.
func (s *WidgetService) Suggestions(language string, exchangeCount int) []string {
	if language == "en" {
		if exchangeCount >= 2 {
			return []string{"Talk to an advisor", "Track my order", "Return policy"}
		}
		return []string{"Product prices", "Delivery times", "Payment methods"}
	}
	if exchangeCount >= 2 {
		return []string{"Parler a un conseiller", "Suivre ma commande", "Politique de retour"}
	}
	return []string{"Prix des produits", "Delais de livraison", "Moyens de paiement"}
}
