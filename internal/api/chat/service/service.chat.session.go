// Package chatsvc - service phiên chat (collection chats).
package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// SessionService đọc/ghi collection chats. Id phiên là chuỗi (identity resolver),
// nên các thao tác theo id dùng filter _id trực tiếp thay vì FindOneById.
type SessionService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatSession]
}

// NewSessionService tạo mới SessionService
func NewSessionService() (*SessionService, error) {
	sessionCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatSessions)
	if !exist {
		return nil, fmt.Errorf("failed to get chats collection: %v", common.ErrNotFound)
	}
	return &SessionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatSession](sessionCollection),
	}, nil
}

// FindByID tìm phiên theo id chuỗi
func (s *SessionService) FindByID(ctx context.Context, chatID string) (chatmodels.ChatSession, error) {
	return s.FindOne(ctx, bson.M{"_id": chatID}, nil)
}

// StartOrResume tạo phiên mới nếu chưa có, hoặc trả về phiên hiện tại.
// Id bất biến sau khi tạo; danh tính chỉ được bổ sung, không bao giờ ghi đè
// giá trị đã có bằng giá trị rỗng.
func (s *SessionService) StartOrResume(ctx context.Context, chatID, userName, userEmail string) (chatmodels.ChatSession, error) {
	existing, err := s.FindByID(ctx, chatID)
	if err == nil {
		set := map[string]interface{}{
			"userOnline": true,
			"lastSeenAt": time.Now().UnixMilli(),
		}
		if existing.UserName == "" && userName != "" {
			set["userName"] = userName
		}
		if existing.UserEmail == "" && userEmail != "" {
			set["userEmail"] = userEmail
		}
		return s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{Set: set}, nil)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return chatmodels.ChatSession{}, err
	}

	session := chatmodels.ChatSession{
		ID:         chatID,
		Status:     chatmodels.ChatStatusBot,
		UserName:   userName,
		UserEmail:  userEmail,
		UserOnline: true,
		LastSeenAt: time.Now().UnixMilli(),
		Priority:   chatmodels.PriorityNormal,
		Language:   "fr",
	}
	created, err := s.InsertOne(ctx, session)
	if err != nil {
		// Hai writer có thể đua nhau tạo cùng phiên: thua cuộc đọc lại
		if errors.Is(err, common.ErrMongoDuplicate) {
			return s.FindByID(ctx, chatID)
		}
		return chatmodels.ChatSession{}, err
	}
	logrus.WithField("chatId", chatID).Info("💬 [CHAT] Tạo phiên chat mới")
	return created, nil
}

// TouchLastMessage cập nhật projection tin nhắn cuối của phiên (cache hiển thị,
// last-write-wins chấp nhận được vì log tin nhắn mới là nguồn sự thật).
func (s *SessionService) TouchLastMessage(ctx context.Context, chatID, sender, text string) error {
	const maxPreview = 200
	if len(text) > maxPreview {
		text = text[:maxPreview]
	}
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"lastMessageAt":     time.Now().UnixMilli(),
			"lastMessageSender": sender,
			"lastMessageText":   text,
		},
	}, nil)
	return err
}

// Presence ghi nhận heartbeat của khách (mỗi 25 giây và khi unload)
func (s *SessionService) Presence(ctx context.Context, chatID string, online bool) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"userOnline": online,
			"lastSeenAt": time.Now().UnixMilli(),
		},
	}, nil)
	return err
}

// MarkRead ghi nhận admin đã đọc phiên (clear unread badge)
func (s *SessionService) MarkRead(ctx context.Context, chatID string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"lastAdminReadAt": time.Now().UnixMilli(),
		},
	}, nil)
	return err
}

// Assign gán phiên cho một admin (ghi đè assignment hiện tại)
func (s *SessionService) Assign(ctx context.Context, chatID, adminEmail string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{"assignedTo": adminEmail},
	}, nil)
	return err
}

// SetPriority đặt mức ưu tiên (normal | high | urgent)
func (s *SessionService) SetPriority(ctx context.Context, chatID, priority string) error {
	switch priority {
	case chatmodels.PriorityNormal, chatmodels.PriorityHigh, chatmodels.PriorityUrgent:
	default:
		return common.NewError(common.ErrCodeValidationInput, "Mức ưu tiên không hợp lệ", common.StatusBadRequest, nil)
	}
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{"priority": priority},
	}, nil)
	return err
}

// JoinRoster thêm admin vào danh sách activeAdmins (append-if-absent, best-effort —
// roster là advisory, không phải lock)
func (s *SessionService) JoinRoster(ctx context.Context, chatID, adminEmail string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"activeAdmins": adminEmail},
	}, nil)
	return err
}

// LeaveRoster gỡ admin khỏi danh sách activeAdmins (khi đóng tab/unload)
func (s *SessionService) LeaveRoster(ctx context.Context, chatID, adminEmail string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Pull: map[string]interface{}{"activeAdmins": adminEmail},
	}, nil)
	return err
}

// Close đóng phiên: status closed + closedAt. Phiên đã đóng giữ nguyên closedAt cũ.
func (s *SessionService) Close(ctx context.Context, chatID string) (chatmodels.ChatSession, error) {
	session, err := s.FindByID(ctx, chatID)
	if err != nil {
		return chatmodels.ChatSession{}, err
	}
	if session.Status == chatmodels.ChatStatusClosed {
		return session, nil
	}
	return s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":   chatmodels.ChatStatusClosed,
			"closedAt": time.Now().UnixMilli(),
		},
	}, nil)
}

// Rate lưu đánh giá 1..5 sau khi đóng, chỉ một lần duy nhất cho mỗi phiên
func (s *SessionService) Rate(ctx context.Context, chatID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return common.NewError(common.ErrCodeValidationInput, "Đánh giá phải từ 1 đến 5", common.StatusBadRequest, nil)
	}
	session, err := s.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if session.Rating != 0 {
		return common.ErrAlreadyRated
	}
	_, err = s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"rating":        rating,
			"ratingComment": comment,
		},
	}, nil)
	return err
}

// SoftArchive đánh dấu phiên đã lưu trữ thay vì xóa cứng (fallback khi
// không được phép xóa): ẩn khỏi console, status closed.
func (s *SessionService) SoftArchive(ctx context.Context, chatID string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"adminHidden":     true,
			"status":          chatmodels.ChatStatusClosed,
			"closedAt":        time.Now().UnixMilli(),
			"lastMessageText": "Archive admin",
		},
	}, nil)
	return err
}

// FindIdleOpenSessions trả về các phiên chưa đóng không có hoạt động từ trước cutoff
// (đầu vào của auto-close sweep)
func (s *SessionService) FindIdleOpenSessions(ctx context.Context, cutoff int64) ([]chatmodels.ChatSession, error) {
	filter := bson.M{
		"status":        bson.M{"$ne": chatmodels.ChatStatusClosed},
		"lastMessageAt": bson.M{"$gt": 0, "$lt": cutoff},
	}
	return s.Find(ctx, filter, nil)
}

// SetLanguage lưu ngôn ngữ phát hiện được lên phiên (chỉ khi thay đổi)
func (s *SessionService) SetLanguage(ctx context.Context, chatID, language string) {
	if language != "fr" && language != "en" {
		return
	}
	_, err := s.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{
		Set: map[string]interface{}{"language": language},
	}, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Debug("SetLanguage: Lỗi cập nhật ngôn ngữ")
	}
}
