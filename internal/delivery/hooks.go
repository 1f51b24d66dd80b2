// Package delivery - hook đăng ký xử lý event thay đổi dữ liệu để enqueue webhook.
package delivery

import (
	"context"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	"bienfaire_commerce/internal/api/events"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/logger"
)

func init() {
	events.OnDataChanged(handleDeliveryDataChange)
}

// handleDeliveryDataChange xử lý event thay đổi dữ liệu: mỗi tin nhắn mới
// từ khách được enqueue thành webhook notification. Các writer (widget,
// admin console, worker) không cần gọi enqueue trực tiếp.
func handleDeliveryDataChange(ctx context.Context, e events.DataChangeEvent) {
	if e.CollectionName == "" || e.CollectionName != global.MongoDB_ColNames.ChatMessages {
		return
	}
	if e.Operation != events.OpInsert || e.Document == nil {
		return
	}
	if events.GetStringField(e.Document, "Sender") != chatmodels.SenderUser {
		return
	}

	chatID := events.GetStringField(e.Document, "ChatID")
	if chatID == "" {
		return
	}

	queue, err := NewQueue()
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("📦 [DELIVERY] Không thể tạo Queue trong hook")
		return
	}
	queue.EnqueueNewUserMessage(ctx, chatID,
		events.GetStringField(e.Document, "SenderName"),
		events.GetStringField(e.Document, "SenderEmail"),
		events.GetStringField(e.Document, "Text"))
}
