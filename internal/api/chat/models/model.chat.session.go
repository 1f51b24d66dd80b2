// Package models - ChatSession thuộc domain Chat (collection chats).
package models

// Trạng thái phiên chat
const (
	ChatStatusBot    = "bot"    // Bot/AI đang trả lời
	ChatStatusOpen   = "open"   // Đang mở, chưa gán replier
	ChatStatusHuman  = "human"  // Admin đang xử lý (AI tạm dừng)
	ChatStatusClosed = "closed" // Đã đóng
)

// Mức ưu tiên phiên chat
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ChatSession là một cuộc hội thoại hỗ trợ khách hàng.
// _id là chuỗi từ identity resolver (chat_user_<hash> hoặc chat_<ms>_<suffix>),
// KHÔNG phải ObjectID — id bất biến sau khi tạo.
type ChatSession struct {
	ID     string `json:"id" bson:"_id"`
	Status string `json:"status" bson:"status,omitempty" index:"single:1" default:"bot"`

	// Danh tính khách
	UserName  string `json:"userName" bson:"userName,omitempty"`
	UserEmail string `json:"userEmail" bson:"userEmail,omitempty"`

	// Hiện diện
	UserOnline bool  `json:"userOnline" bson:"userOnline,omitempty"`
	LastSeenAt int64 `json:"lastSeenAt" bson:"lastSeenAt,omitempty"`

	// Projection tin nhắn cuối (cache hiển thị, chấp nhận last-write-wins)
	LastMessageAt     int64  `json:"lastMessageAt" bson:"lastMessageAt,omitempty" index:"single:-1"`
	LastMessageSender string `json:"lastMessageSender" bson:"lastMessageSender,omitempty"`
	LastMessageText   string `json:"lastMessageText" bson:"lastMessageText,omitempty"`

	// Phía admin
	AssignedTo      string   `json:"assignedTo" bson:"assignedTo,omitempty"`
	ActiveAdmins    []string `json:"activeAdmins" bson:"activeAdmins,omitempty"`
	Priority        string   `json:"priority" bson:"priority,omitempty" default:"normal"`
	LastAdminReadAt int64    `json:"lastAdminReadAt" bson:"lastAdminReadAt,omitempty"`

	// Ngôn ngữ phát hiện được (fr | en)
	Language string `json:"language" bson:"language,omitempty" default:"fr"`

	// Handoff
	AIPaused         bool   `json:"aiPaused" bson:"aiPaused,omitempty"`
	HumanRequestedAt int64  `json:"humanRequestedAt" bson:"humanRequestedAt,omitempty"`
	HandoffSummary   string `json:"handoffSummary" bson:"handoffSummary,omitempty"`
	TransferredAt    int64  `json:"transferredAt" bson:"transferredAt,omitempty"`
	TransferredBy    string `json:"transferredBy" bson:"transferredBy,omitempty"`

	// SLA
	FirstUserMessageAt int64 `json:"firstUserMessageAt" bson:"firstUserMessageAt,omitempty"`
	FirstAdminReplyAt  int64 `json:"firstAdminReplyAt" bson:"firstAdminReplyAt,omitempty"`
	FirstResponseSec   int64 `json:"firstResponseSec" bson:"firstResponseSec,omitempty"`

	// Đánh giá sau khi đóng (1..5, một lần duy nhất)
	Rating        int    `json:"rating" bson:"rating,omitempty"`
	RatingComment string `json:"ratingComment" bson:"ratingComment,omitempty"`

	// Soft-archive (xóa mềm khi không được phép xóa cứng)
	AdminHidden bool  `json:"adminHidden" bson:"adminHidden,omitempty"`
	ClosedAt    int64 `json:"closedAt" bson:"closedAt,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt,omitempty"`
}
