// Package models - ChatMessage thuộc domain Chat (collection chat_messages).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Người gửi tin nhắn
const (
	SenderUser      = "user"
	SenderBot       = "bot"
	SenderAI        = "ai"
	SenderAdmin     = "admin"
	SenderAdminNote = "admin_note" // Ghi chú nội bộ, không bao giờ đến khách
	SenderSystem    = "system"     // Artifact hiển thị, bị lọc khỏi view mặc định
)

// Tag ngữ nghĩa của tin nhắn (không phải cơ chế delivery)
const (
	TypeRating            = "rating"
	TypeRatingRequest     = "rating_request"
	TypeTransfer          = "transfer"
	TypeReadReceipt       = "read_receipt"
	TypeHumanRequest      = "human_request"
	TypeAIAuto            = "ai_auto"
	TypeAICatalogFallback = "ai_catalog_fallback"
)

// ChatMessage là một phát ngôn trong phiên chat, append-only và bất biến sau khi ghi.
// CreatedAt là chuỗi ISO-8601 UTC độ dài cố định — khóa sắp xếp của feed
// (so sánh chuỗi lexicographic trùng với thứ tự thời gian), không dựa vào
// thứ tự ghi vì nhiều writer có thể ghi đồng thời.
type ChatMessage struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChatID string             `json:"chatId" bson:"chatId" index:"single:1"`

	Sender      string `json:"sender" bson:"sender"`
	SenderName  string `json:"senderName,omitempty" bson:"senderName,omitempty"`
	SenderEmail string `json:"senderEmail,omitempty" bson:"senderEmail,omitempty"`

	Text string `json:"text" bson:"text,omitempty"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`

	// Metadata file đính kèm (không host file)
	AttachmentName string `json:"attachmentName,omitempty" bson:"attachmentName,omitempty"`
	AttachmentURL  string `json:"attachmentUrl,omitempty" bson:"attachmentUrl,omitempty"`
	AttachmentSize int64  `json:"attachmentSize,omitempty" bson:"attachmentSize,omitempty"`

	CreatedAt string `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
