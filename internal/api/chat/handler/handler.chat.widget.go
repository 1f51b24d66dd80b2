// Package chathdl - handler widget khách hàng (public, không cần JWT).
package chathdl

import (
	"fmt"

	chatdto "bienfaire_commerce/internal/api/chat/dto"
	chatmodels "bienfaire_commerce/internal/api/chat/models"
	chatsvc "bienfaire_commerce/internal/api/chat/service"
	basehdl "bienfaire_commerce/internal/api/base/handler"
	"bienfaire_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
)

// WidgetHandler xử lý các request từ widget chat trên storefront
type WidgetHandler struct {
	*basehdl.BaseHandler[chatmodels.ChatSession, chatdto.ChatStartInput, chatdto.ChatStartInput]
	widgetService *chatsvc.WidgetService
}

// NewWidgetHandler tạo instance mới của WidgetHandler
func NewWidgetHandler() (*WidgetHandler, error) {
	widgetService, err := chatsvc.NewWidgetService()
	if err != nil {
		return nil, fmt.Errorf("failed to create widget service: %v", err)
	}
	sessionService, err := chatsvc.NewSessionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[chatmodels.ChatSession, chatdto.ChatStartInput, chatdto.ChatStartInput](sessionService.BaseServiceMongoImpl)
	return &WidgetHandler{
		BaseHandler:   baseHandler,
		widgetService: widgetService,
	}, nil
}

// HandleStart khởi tạo / mở lại phiên chat
func (h *WidgetHandler) HandleStart(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.ChatStartInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		session, err := h.widgetService.StartOrResume(c.Context(), input.UserName, input.UserEmail, input.ChatID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, chatdto.ChatStartResponse{
			Session:             session,
			PollIntervalSec:     chatsvc.PollIntervalSec,
			PresenceIntervalSec: chatsvc.PresenceIntervalSec,
			Suggestions:         h.widgetService.Suggestions(session.Language, 0),
		}, nil)
		return nil
	})
}

// HandleSend gửi tin nhắn khách, trả về các tin nhắn mới sinh ra
func (h *WidgetHandler) HandleSend(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.ChatSendInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var attachment *chatmodels.ChatMessage
		if input.AttachmentURL != "" {
			attachment = &chatmodels.ChatMessage{
				AttachmentName: input.AttachmentName,
				AttachmentURL:  input.AttachmentURL,
				AttachmentSize: input.AttachmentSize,
			}
		}

		messages, err := h.widgetService.SendMessage(c.Context(), input.ChatID, input.Text, input.SenderName, input.SenderEmail, attachment)
		h.HandleResponse(c, messages, err)
		return nil
	})
}

// HandleFeed trả về tin nhắn mới sau mốc `after` (query params)
func (h *WidgetHandler) HandleFeed(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		chatID := c.Query("chatId")
		if chatID == "" {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}

		messages, err := h.widgetService.Feed(c.Context(), chatID, c.Query("after"))
		h.HandleResponse(c, messages, err)
		return nil
	})
}

// HandlePresence heartbeat online/offline của khách
func (h *WidgetHandler) HandlePresence(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.ChatPresenceInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.widgetService.Presence(c.Context(), input.ChatID, input.Online)
		h.HandleResponse(c, fiber.Map{"ok": err == nil}, err)
		return nil
	})
}

// HandleRequestHuman yêu cầu gặp conseiller (idempotent trong cửa sổ ngắn)
func (h *WidgetHandler) HandleRequestHuman(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.ChatHumanRequestInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		cooldown, err := h.widgetService.RequestHuman(c.Context(), input.ChatID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, chatdto.ChatHumanRequestResponse{CooldownSec: cooldown}, nil)
		return nil
	})
}

// HandleRate lưu đánh giá của khách (một lần duy nhất)
func (h *WidgetHandler) HandleRate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input chatdto.ChatRatingInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.widgetService.Rate(c.Context(), input.ChatID, input.Rating, input.Comment)
		h.HandleResponse(c, fiber.Map{"rated": err == nil}, err)
		return nil
	})
}
