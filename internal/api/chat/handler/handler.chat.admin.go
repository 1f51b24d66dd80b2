// Package chathdl - handler quản trị kênh chat (sau AuthMiddleware).
package chathdl

import (
	"fmt"
	"strconv"
	"strings"

	chatdto "bienfaire_commerce/internal/api/chat/dto"
	chatmodels "bienfaire_commerce/internal/api/chat/models"
	chatsvc "bienfaire_commerce/internal/api/chat/service"
	basehdl "bienfaire_commerce/internal/api/base/handler"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// AdminChatHandler xử lý các request quản trị trên kênh chat
type AdminChatHandler struct {
	*basehdl.BaseHandler[chatmodels.ChatMessage, chatdto.AdminReplyInput, chatdto.AdminReplyInput]
	adminChatService *chatsvc.AdminChatService
}

// NewAdminChatHandler tạo instance mới của AdminChatHandler
func NewAdminChatHandler() (*AdminChatHandler, error) {
	adminChatService, err := chatsvc.NewAdminChatService()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin chat service: %v", err)
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[chatmodels.ChatMessage, chatdto.AdminReplyInput, chatdto.AdminReplyInput](messageService.BaseServiceMongoImpl)
	return &AdminChatHandler{
		BaseHandler:      baseHandler,
		adminChatService: adminChatService,
	}, nil
}

// displayName tên hiển thị cho tin nhắn admin: phần local của email
func displayName(adminEmail string) string {
	if at := strings.Index(adminEmail, "@"); at > 0 {
		return adminEmail[:at]
	}
	return adminEmail
}

// adminIdentity lấy (adminID, adminEmail) do AuthMiddleware set vào Locals
func adminIdentity(c fiber.Ctx) (string, string, error) {
	adminID, ok := c.Locals("adminID").(string)
	if !ok || adminID == "" {
		return "", "", common.NewError(common.ErrCodeAuth, "Admin not authenticated", common.StatusUnauthorized, nil)
	}
	adminEmail, _ := c.Locals("adminEmail").(string)
	return adminID, adminEmail, nil
}

// HandleListSessions inbox admin (lọc theo status/priority, kèm unread + SLA)
func (h *AdminChatHandler) HandleListSessions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		filter := chatsvc.InboxFilter{
			Status:        c.Query("status"),
			Priority:      c.Query("priority"),
			IncludeHidden: c.Query("includeHidden") == "true",
		}
		summaries, err := h.adminChatService.ListSessions(c.Context(), filter)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if c.Query("sort") == "priority" {
			chatsvc.SortSummariesByPriority(summaries)
		}
		h.HandleResponse(c, summaries, nil)
		return nil
	})
}

// HandleFeed luồng tin nhắn đầy đủ cho admin (gồm note nội bộ)
func (h *AdminChatHandler) HandleFeed(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		messages, err := h.adminChatService.Feed(c.Context(), chatID, c.Query("after"))
		h.HandleResponse(c, messages, err)
		return nil
	})
}

// HandleSearch tìm tin nhắn theo nội dung hoặc người gửi trên toàn inbox
func (h *AdminChatHandler) HandleSearch(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		query := c.Query("q")
		if query == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		limit, _ := strconv.ParseInt(c.Query("limit", "200"), 10, 64)
		messages, err := h.adminChatService.SearchMessages(c.Context(), c.Query("chatId"), query, limit)
		h.HandleResponse(c, messages, err)
		return nil
	})
}

// HandleReply admin trả lời khách
func (h *AdminChatHandler) HandleReply(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		_, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminReplyInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		message, err := h.adminChatService.Reply(c.Context(), input.ChatID, adminEmail, displayName(adminEmail), input.Text)
		h.HandleResponse(c, message, err)
		return nil
	})
}

// HandleNote ghi note nội bộ
func (h *AdminChatHandler) HandleNote(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		_, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminNoteInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		message, err := h.adminChatService.AddNote(c.Context(), input.ChatID, adminEmail, displayName(adminEmail), input.Text)
		h.HandleResponse(c, message, err)
		return nil
	})
}

// HandleMarkRead đánh dấu đã đọc
func (h *AdminChatHandler) HandleMarkRead(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err := h.adminChatService.MarkRead(c.Context(), chatID)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleSetPriority đổi độ ưu tiên
func (h *AdminChatHandler) HandleSetPriority(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.AdminPriorityInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err := h.adminChatService.SetPriority(c.Context(), input.ChatID, input.Priority)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleJoin / HandleLeave roster phiên
func (h *AdminChatHandler) HandleJoin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		_, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err = h.adminChatService.JoinRoster(c.Context(), chatID, adminEmail)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

func (h *AdminChatHandler) HandleLeave(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		_, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err = h.adminChatService.LeaveRoster(c.Context(), chatID, adminEmail)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleTransfer chuyển phiên sang admin khác
func (h *AdminChatHandler) HandleTransfer(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminTransferInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.adminChatService.Transfer(c.Context(), input.ChatID, adminEmail, input.ToAdmin, adminID)
		if err == nil {
			logger.LogChat("transfer", input.ChatID, c, map[string]interface{}{"to": input.ToAdmin})
		}
		h.HandleResponse(c, fiber.Map{"transferred": err == nil}, err)
		return nil
	})
}

// HandleResumeAI kích hoạt lại trả lời tự động
func (h *AdminChatHandler) HandleResumeAI(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err := h.adminChatService.ResumeAI(c.Context(), chatID)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleClose đóng phiên
func (h *AdminChatHandler) HandleClose(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err = h.adminChatService.Close(c.Context(), chatID, adminID, adminEmail)
		if err == nil {
			logger.LogChat("close", chatID, c, nil)
		}
		h.HandleResponse(c, fiber.Map{"closed": err == nil}, err)
		return nil
	})
}

// HandleBan / HandleUnban / HandleListBanned quản lý danh sách chặn
func (h *AdminChatHandler) HandleBan(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminBanInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.adminChatService.BanUser(c.Context(), input.Email, input.Reason, adminID, adminEmail)
		if err == nil {
			logger.LogChat("ban", "", c, map[string]interface{}{"email": input.Email})
		}
		h.HandleResponse(c, fiber.Map{"banned": err == nil}, err)
		return nil
	})
}

func (h *AdminChatHandler) HandleUnban(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminUnbanInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.adminChatService.UnbanUser(c.Context(), input.Email, adminID, adminEmail)
		h.HandleResponse(c, fiber.Map{"unbanned": err == nil}, err)
		return nil
	})
}

func (h *AdminChatHandler) HandleListBanned(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		banned, err := h.adminChatService.ListBanned(c.Context())
		h.HandleResponse(c, banned, err)
		return nil
	})
}

// HandleClearAll xoá toàn bộ tin nhắn + phiên (thao tác destructive)
func (h *AdminChatHandler) HandleClearAll(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		deletedMessages, deletedSessions, err := h.adminChatService.ClearAll(c.Context(), adminID, adminEmail)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogChat("clear_all", "", c, map[string]interface{}{
			"deleted_messages": deletedMessages,
			"deleted_sessions": deletedSessions,
		})
		h.HandleResponse(c, chatdto.AdminClearAllResponse{
			DeletedMessages: deletedMessages,
			DeletedSessions: deletedSessions,
		}, nil)
		return nil
	})
}

// HandleCleanupNoise dọn tin nhắn nhiễu
func (h *AdminChatHandler) HandleCleanupNoise(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, adminEmail, err := adminIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input chatdto.AdminCleanupInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		deleted, err := h.adminChatService.CleanupNoise(c.Context(), input.ChatID, adminID, adminEmail)
		h.HandleResponse(c, fiber.Map{"deleted": deleted}, err)
		return nil
	})
}

// HandleExport xuất transcript: CSV mặc định (chatId rỗng = mọi phiên),
// format=print trả trang HTML in được của một phiên.
func (h *AdminChatHandler) HandleExport(c fiber.Ctx) error {
	adminID, adminEmail, err := adminIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	chatID := c.Query("chatId")

	if c.Query("format") == "print" {
		data, err := h.adminChatService.ExportPrintable(c.Context(), chatID, adminID, adminEmail)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogChat("export", chatID, c, map[string]interface{}{"format": "print", "bytes": len(data)})
		c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
		return c.Send(data)
	}

	data, err := h.adminChatService.ExportCSV(c.Context(), chatID, adminID, adminEmail)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	filename := "chat_export.csv"
	if chatID != "" {
		filename = "chat_" + chatID + ".csv"
	}
	logger.LogChat("export", chatID, c, map[string]interface{}{"bytes": len(data)})
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// HandleKPI số liệu tổng hợp dashboard
func (h *AdminChatHandler) HandleKPI(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		summary, err := h.adminChatService.KPI(c.Context())
		h.HandleResponse(c, summary, err)
		return nil
	})
}

// HandleBackfillIdentity chạy backfill danh tính cho phiên legacy
func (h *AdminChatHandler) HandleBackfillIdentity(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		err := h.adminChatService.BackfillIdentity(c.Context(), chatID)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleQuickReplies mẫu câu trả lời nhanh
func (h *AdminChatHandler) HandleQuickReplies(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		language := c.Query("language", "fr")
		h.HandleResponse(c, h.adminChatService.QuickReplies(language), nil)
		return nil
	})
}

// HandleLogs nhật ký thao tác admin
func (h *AdminChatHandler) HandleLogs(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)
		logs, err := h.adminChatService.ListLogs(c.Context(), limit)
		h.HandleResponse(c, logs, err)
		return nil
	})
}
