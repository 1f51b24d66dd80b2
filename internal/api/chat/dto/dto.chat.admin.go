// Package chatdto - DTO cho mặt quản trị kênh chat.
package chatdto

// AdminReplyInput câu trả lời của admin
type AdminReplyInput struct {
	ChatID string `json:"chatId" validate:"required,max=64"`
	Text   string `json:"text" validate:"required,max=4000"`
}

// AdminNoteInput note nội bộ (khách không thấy)
type AdminNoteInput struct {
	ChatID string `json:"chatId" validate:"required,max=64"`
	Text   string `json:"text" validate:"required,max=4000"`
}

// AdminPriorityInput đổi độ ưu tiên phiên
type AdminPriorityInput struct {
	ChatID   string `json:"chatId" validate:"required,max=64"`
	Priority string `json:"priority" validate:"required,oneof=normal high urgent"`
}

// AdminTransferInput chuyển phiên sang admin khác
type AdminTransferInput struct {
	ChatID  string `json:"chatId" validate:"required,max=64"`
	ToAdmin string `json:"toAdmin" validate:"required,email"`
}

// AdminBanInput chặn một email khỏi kênh chat
type AdminBanInput struct {
	Email  string `json:"email" validate:"required,email"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// AdminUnbanInput gỡ chặn
type AdminUnbanInput struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminCleanupInput dọn tin nhắn nhiễu (chatId rỗng = mọi phiên)
type AdminCleanupInput struct {
	ChatID string `json:"chatId" validate:"omitempty,max=64"`
}

// AdminClearAllResponse kết quả xoá toàn bộ
type AdminClearAllResponse struct {
	DeletedMessages int64 `json:"deletedMessages"`
	DeletedSessions int64 `json:"deletedSessions"`
}
