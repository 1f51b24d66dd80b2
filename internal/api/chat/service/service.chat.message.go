// Package chatsvc - service tin nhắn chat (append-only log của phiên).
package chatsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/api/events"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sortKeyLayout layout ISO-8601 UTC độ dài cố định, so sánh chuỗi = so sánh thời gian
const sortKeyLayout = "2006-01-02T15:04:05.000Z"

// Audience của một feed tin nhắn (quy định lọc gì)
const (
	AudienceCustomer = "customer" // Widget: lọc noise + admin_note
	AudienceAdmin    = "admin"    // Console: lọc noise, giữ admin_note
	AudienceRaw      = "raw"      // Export/retention: không lọc
)

// NowSortKey trả về khóa sắp xếp createdAt cho thời điểm hiện tại
func NowSortKey() string {
	return time.Now().UTC().Format(sortKeyLayout)
}

// SortKeyFromMillis chuyển UnixMilli sang khóa sắp xếp
func SortKeyFromMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(sortKeyLayout)
}

// IsNoise kiểm tra tin nhắn là artifact hiển thị: sender system,
// type read_receipt, hoặc text là "vu" (mọi cách viết hoa thường).
func IsNoise(message *chatmodels.ChatMessage) bool {
	if message == nil {
		return false
	}
	if message.Sender == chatmodels.SenderSystem {
		return true
	}
	if message.Type == chatmodels.TypeReadReceipt {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(message.Text), "vu")
}

// MessageService đọc/ghi collection chat_messages.
// Không dùng InsertOne của base service vì createdAt của tin nhắn là chuỗi
// ISO (khóa sắp xếp của feed), không phải UnixMilli.
type MessageService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatMessage]
}

// NewMessageService tạo mới MessageService
func NewMessageService() (*MessageService, error) {
	messageCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_messages collection: %v", common.ErrNotFound)
	}
	return &MessageService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatMessage](messageCollection),
	}, nil
}

// Append ghi một tin nhắn mới vào log của phiên. Tin nhắn bất biến sau khi ghi.
func (s *MessageService) Append(ctx context.Context, message chatmodels.ChatMessage) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage
	if message.ChatID == "" {
		return zero, common.NewError(common.ErrCodeValidationInput, "Thiếu chatId", common.StatusBadRequest, nil)
	}
	if message.CreatedAt == "" {
		message.CreatedAt = NowSortKey()
	}
	message.UpdatedAt = time.Now().UnixMilli()

	result, err := s.Collection().InsertOne(ctx, message)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created chatmodels.ChatMessage
	if err := s.Collection().FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}

	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.Collection().Name(),
		Operation:      events.OpInsert,
		Document:       created,
	})
	return created, nil
}

// Feed trả về tin nhắn của phiên theo thứ tự createdAt tăng dần,
// lọc theo audience. after là khóa sắp xếp: chỉ trả tin nhắn mới hơn (polling).
func (s *MessageService) Feed(ctx context.Context, chatID string, after string, audience string) ([]chatmodels.ChatMessage, error) {
	filter := bson.M{"chatId": chatID}
	if after != "" {
		filter["createdAt"] = bson.M{"$gt": after}
	}
	if audience == AudienceCustomer {
		filter["sender"] = bson.M{"$ne": chatmodels.SenderAdminNote}
	}

	messages, err := s.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if audience == AudienceRaw {
		return messages, nil
	}

	filtered := make([]chatmodels.ChatMessage, 0, len(messages))
	for i := range messages {
		if IsNoise(&messages[i]) {
			continue
		}
		filtered = append(filtered, messages[i])
	}
	return filtered, nil
}

// LastNonNoise trả về tối đa limit tin nhắn không-noise mới nhất, theo thứ tự thời gian.
// Dùng cho handoff summary và AI history.
func (s *MessageService) LastNonNoise(ctx context.Context, chatID string, limit int) ([]chatmodels.ChatMessage, error) {
	// Lấy dư để bù các tin nhắn noise bị loại, rồi cắt về limit
	fetched, err := s.Find(ctx, bson.M{"chatId": chatID},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit*3)))
	if err != nil {
		return nil, err
	}

	filtered := make([]chatmodels.ChatMessage, 0, limit)
	for i := range fetched {
		if IsNoise(&fetched[i]) || fetched[i].Sender == chatmodels.SenderAdminNote {
			continue
		}
		filtered = append(filtered, fetched[i])
		if len(filtered) == limit {
			break
		}
	}

	// Đảo về thứ tự thời gian tăng dần
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered, nil
}

// CountUnread đếm tin nhắn user chưa đọc: createdAt mới hơn lastAdminReadAt,
// noise không tính (lọc "vu" sau query vì cần so sánh không phân biệt hoa thường).
func (s *MessageService) CountUnread(ctx context.Context, chatID string, lastAdminReadAt int64) (int64, error) {
	filter := bson.M{
		"chatId": chatID,
		"sender": chatmodels.SenderUser,
		"type":   bson.M{"$ne": chatmodels.TypeReadReceipt},
	}
	if lastAdminReadAt > 0 {
		filter["createdAt"] = bson.M{"$gt": SortKeyFromMillis(lastAdminReadAt)}
	}

	messages, err := s.Find(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	var count int64
	for i := range messages {
		if IsNoise(&messages[i]) {
			continue
		}
		count++
	}
	return count, nil
}

// DeleteNoise xóa các tin nhắn noise của toàn bộ (hoặc một) phiên — retention tooling.
// chatID rỗng = mọi phiên. Trả về số document đã xóa.
func (s *MessageService) DeleteNoise(ctx context.Context, chatID string) (int64, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": chatmodels.SenderSystem},
			{"type": chatmodels.TypeReadReceipt},
			{"text": bson.M{"$regex": "^\\s*vu\\s*$", "$options": "i"}},
		},
	}
	if chatID != "" {
		filter["chatId"] = chatID
	}
	return s.DeleteMany(ctx, filter)
}
