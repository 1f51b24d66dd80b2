// Package chatsvc - resolver danh tính phiên chat.
//
// Khách đã xác thực (có email) nhận id dẫn xuất ổn định từ email — cùng
// email luôn cho cùng id, trên mọi thiết bị. Khách vãng lai nhận id ngẫu
// nhiên theo thiết bị. Phiên "legacy anonymous" (scheme id cũ, không danh
// tính) được ẩn khỏi admin list khi đã có phiên scheme mới.
package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionIDUserPrefix prefix id dẫn xuất từ email
const SessionIDUserPrefix = "chat_user_"

// legacyIDPattern scheme id ngẫu nhiên cũ: chat_<timestamp>_<suffix>
var legacyIDPattern = regexp.MustCompile(`(?i)^chat_\d+_[a-z0-9]+$`)

// legacyPlaceholderNames tên placeholder coi như không có danh tính
var legacyPlaceholderNames = map[string]bool{
	"":               true,
	"client":         true,
	"client inconnu": true,
}

const anonSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// ResolveByEmail dẫn xuất id phiên ổn định từ email (djb2 hash, render base36).
// Email được normalize (trim + lowercase) trước khi hash: cùng email ⇒ cùng id.
func ResolveByEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var hash uint32 = 5381
	for _, c := range []byte(normalized) {
		hash = hash*33 + uint32(c)
	}
	return SessionIDUserPrefix + strconv.FormatUint(uint64(hash), 36)
}

// ResolveAnonymous sinh id ngẫu nhiên cho khách vãng lai: chat_<ms>_<6 ký tự base36>
func ResolveAnonymous() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = anonSuffixChars[rand.Intn(len(anonSuffixChars))]
	}
	return fmt.Sprintf("chat_%d_%s", time.Now().UnixMilli(), suffix)
}

// ResolveSessionID chọn id theo danh tính: có email → id dẫn xuất,
// không email → giữ id hiện tại nếu có, nếu không mint id ngẫu nhiên mới.
func ResolveSessionID(email string, currentID string) string {
	if strings.TrimSpace(email) != "" {
		return ResolveByEmail(email)
	}
	if currentID != "" {
		return currentID
	}
	return ResolveAnonymous()
}

// IsLegacy phân loại phiên "legacy anonymous": id theo scheme ngẫu nhiên cũ
// VÀ không có email VÀ tên rỗng hoặc placeholder.
func IsLegacy(session *chatmodels.ChatSession) bool {
	if session == nil {
		return false
	}
	if !legacyIDPattern.MatchString(session.ID) {
		return false
	}
	if session.UserEmail != "" {
		return false
	}
	return legacyPlaceholderNames[strings.ToLower(strings.TrimSpace(session.UserName))]
}

// IsModern phiên theo scheme mới: id dẫn xuất từ email hoặc đã có email.
func IsModern(session *chatmodels.ChatSession) bool {
	if session == nil {
		return false
	}
	return strings.HasPrefix(session.ID, SessionIDUserPrefix) || session.UserEmail != ""
}

// IdentityService backfill danh tính cho phiên thiếu tên/email từ lịch sử tin nhắn.
type IdentityService struct {
	sessionService *basesvc.BaseServiceMongoImpl[chatmodels.ChatSession]
	messageService *basesvc.BaseServiceMongoImpl[chatmodels.ChatMessage]

	// Phiên đã thử backfill trong vòng đời process (tránh scan lặp lại)
	mu        sync.Mutex
	attempted map[string]bool
}

// NewIdentityService tạo mới IdentityService
func NewIdentityService() (*IdentityService, error) {
	sessionCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatSessions)
	if !exist {
		return nil, fmt.Errorf("failed to get chats collection: %v", common.ErrNotFound)
	}
	messageCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_messages collection: %v", common.ErrNotFound)
	}
	return &IdentityService{
		sessionService: basesvc.NewBaseServiceMongo[chatmodels.ChatSession](sessionCollection),
		messageService: basesvc.NewBaseServiceMongo[chatmodels.ChatMessage](messageCollection),
		attempted:      make(map[string]bool),
	}, nil
}

// Backfill tìm tin nhắn user đầu tiên mang senderName/senderEmail và patch
// lên phiên thiếu danh tính. Mỗi phiên chỉ thử một lần mỗi vòng đời process.
func (s *IdentityService) Backfill(ctx context.Context, chatID string) error {
	s.mu.Lock()
	if s.attempted[chatID] {
		s.mu.Unlock()
		return nil
	}
	s.attempted[chatID] = true
	s.mu.Unlock()

	session, err := s.sessionService.FindOne(ctx, bson.M{"_id": chatID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if session.UserName != "" && session.UserEmail != "" {
		return nil
	}

	filter := bson.M{
		"chatId": chatID,
		"sender": chatmodels.SenderUser,
		"$or": []bson.M{
			{"senderName": bson.M{"$nin": []interface{}{nil, ""}}},
			{"senderEmail": bson.M{"$nin": []interface{}{nil, ""}}},
		},
	}
	message, err := s.messageService.FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	set := map[string]interface{}{}
	if session.UserName == "" && message.SenderName != "" {
		set["userName"] = message.SenderName
	}
	if session.UserEmail == "" && message.SenderEmail != "" {
		set["userEmail"] = message.SenderEmail
	}
	if len(set) == 0 {
		return nil
	}

	_, err = s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{Set: set}, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("Backfill: Lỗi patch danh tính phiên")
		return err
	}
	return nil
}
