// Package chatdto - DTO cho widget khách hàng.
package chatdto

import chatmodels "bienfaire_commerce/internal/api/chat/models"

// ChatStartInput khởi tạo hoặc mở lại phiên chat từ widget
type ChatStartInput struct {
	UserName  string `json:"userName" validate:"omitempty,max=120"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
	// ChatID id phiên thiết bị đang giữ (rỗng nếu lần đầu)
	ChatID string `json:"chatId" validate:"omitempty,max=64"`
}

// ChatStartResponse trả về phiên + cấu hình nhịp cho widget
type ChatStartResponse struct {
	Session             chatmodels.ChatSession `json:"session"`
	PollIntervalSec     int                    `json:"pollIntervalSec"`
	PresenceIntervalSec int                    `json:"presenceIntervalSec"`
	Suggestions         []string               `json:"suggestions"`
}

// ChatSendInput gửi một tin nhắn khách
type ChatSendInput struct {
	ChatID         string `json:"chatId" validate:"required,max=64"`
	Text           string `json:"text" validate:"required,max=4000"`
	SenderName     string `json:"senderName" validate:"omitempty,max=120"`
	SenderEmail    string `json:"senderEmail" validate:"omitempty,email"`
	AttachmentName string `json:"attachmentName" validate:"omitempty,max=255"`
	AttachmentURL  string `json:"attachmentUrl" validate:"omitempty,url"`
	AttachmentSize int64  `json:"attachmentSize" validate:"omitempty,min=0"`
}

// ChatFeedInput lấy tin nhắn mới sau một mốc thời gian
type ChatFeedInput struct {
	ChatID string `json:"chatId" validate:"required,max=64"`
	// After sort key của tin nhắn cuối client đã có (rỗng = từ đầu)
	After string `json:"after" validate:"omitempty,max=32"`
}

// ChatPresenceInput heartbeat của khách
type ChatPresenceInput struct {
	ChatID string `json:"chatId" validate:"required,max=64"`
	Online bool   `json:"online"`
}

// ChatHumanRequestInput yêu cầu gặp người thật
type ChatHumanRequestInput struct {
	ChatID string `json:"chatId" validate:"required,max=64"`
}

// ChatHumanRequestResponse cooldown client nên áp dụng sau yêu cầu
type ChatHumanRequestResponse struct {
	CooldownSec int `json:"cooldownSec"`
}

// ChatRatingInput đánh giá phiên sau khi đóng
type ChatRatingInput struct {
	ChatID  string `json:"chatId" validate:"required,max=64"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}
