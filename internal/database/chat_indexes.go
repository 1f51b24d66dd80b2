// Package database - Index bổ sung cho chat (compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"bienfaire_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateChatAdditionalIndexes tạo các index bổ sung cho chat.
// Gọi sau khi registry collection đã khởi tạo.
func CreateChatAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// chat_messages: (chatId, createdAt) — feed tin nhắn theo thứ tự thời gian
	chatMessages := db.Collection(global.MongoDB_ColNames.ChatMessages)
	if _, err := chatMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "chatId", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("chat_message_chat_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_messages: (chatId, sender, type) — đếm unread + lọc noise
	if _, err := chatMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "chatId", Value: 1},
			{Key: "sender", Value: 1},
			{Key: "type", Value: 1},
		},
		Options: options.Index().SetName("chat_message_chat_sender_type"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chats: (status, lastMessageAt) — danh sách admin + auto-close sweep
	chats := db.Collection(global.MongoDB_ColNames.ChatSessions)
	if _, err := chats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "lastMessageAt", Value: -1},
		},
		Options: options.Index().SetName("chat_status_last_message"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chats: userEmail sparse — resolver tìm phiên theo email
	if _, err := chats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userEmail", Value: 1},
		},
		Options: options.Index().SetName("chat_user_email").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// delivery_queue: (status, createdAt) — processor dequeue theo thứ tự
	deliveryQueue := db.Collection(global.MongoDB_ColNames.DeliveryQueue)
	if _, err := deliveryQueue.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("delivery_queue_status_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
