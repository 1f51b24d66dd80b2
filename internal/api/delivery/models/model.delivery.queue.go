// Package models - NotificationQueueItem thuộc domain Delivery (collection delivery_queue).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái xử lý của một item trong queue
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusSent       = "sent"
	QueueStatusFailed     = "failed"
)

// EventNewUserMessage sự kiện webhook: khách gửi tin nhắn chưa đọc
const EventNewUserMessage = "new_user_message"

// NotificationQueueItem một thông báo webhook chờ gửi.
// IdempotencyKey (uuid) chống enqueue trùng cho cùng một tin nhắn.
type NotificationQueueItem struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IdempotencyKey string             `json:"idempotencyKey" bson:"idempotencyKey" index:"single:1;unique"`
	WebhookURL     string             `json:"webhookUrl" bson:"webhookUrl"`

	// Payload webhook
	Event     string `json:"event" bson:"event"`
	ChatID    string `json:"chatId" bson:"chatId"`
	UserName  string `json:"userName" bson:"userName,omitempty"`
	UserEmail string `json:"userEmail" bson:"userEmail,omitempty"`
	Text      string `json:"text" bson:"text,omitempty"`
	At        int64  `json:"at" bson:"at"`

	// Trạng thái xử lý
	Status      string `json:"status" bson:"status" index:"single:1" default:"pending"`
	RetryCount  int    `json:"retryCount" bson:"retryCount,omitempty"`
	MaxRetries  int    `json:"maxRetries" bson:"maxRetries,omitempty" default:"3"`
	NextRetryAt *int64 `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty"`
	Error       string `json:"error,omitempty" bson:"error,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt,omitempty"`
}
