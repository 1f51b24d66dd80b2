// Package authhdl - handler quản trị viên (login, profile, CRUD admin).
package authhdl

import (
	"fmt"

	authdto "bienfaire_commerce/internal/api/auth/dto"
	models "bienfaire_commerce/internal/api/auth/models"
	authsvc "bienfaire_commerce/internal/api/auth/service"
	basehdl "bienfaire_commerce/internal/api/base/handler"
	"bienfaire_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler xử lý các request xác thực và quản lý admin
type AdminHandler struct {
	*basehdl.BaseHandler[models.Admin, authdto.AdminCreateInput, authdto.AdminUpdateInput]
	adminService *authsvc.AdminService
}

// NewAdminHandler tạo instance mới của AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	adminService, err := authsvc.NewAdminService()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Admin, authdto.AdminCreateInput, authdto.AdminUpdateInput](adminService)
	return &AdminHandler{
		BaseHandler:  baseHandler,
		adminService: adminService,
	}, nil
}

// getAdminIDFromContext lấy adminID do AuthMiddleware set vào Locals
func (h *AdminHandler) getAdminIDFromContext(c fiber.Ctx) (string, error) {
	adminID, ok := c.Locals("adminID").(string)
	if !ok || adminID == "" {
		return "", common.NewError(common.ErrCodeAuth, "Admin not authenticated", common.StatusUnauthorized, nil)
	}
	return adminID, nil
}

// HandleLogin xử lý đăng nhập admin bằng email/mật khẩu
func (h *AdminHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.AdminLoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.adminService.Login(c.Context(), &input)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetProfile trả về thông tin admin đang đăng nhập
func (h *AdminHandler) HandleGetProfile(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, err := h.getAdminIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		profile, err := h.adminService.GetProfile(c.Context(), adminID)
		h.HandleResponse(c, profile, err)
		return nil
	})
}

// HandleChangePassword đổi mật khẩu cho admin đang đăng nhập
func (h *AdminHandler) HandleChangePassword(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		adminID, err := h.getAdminIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input authdto.AdminChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.adminService.ChangePassword(c.Context(), adminID, &input)
		h.HandleResponse(c, fiber.Map{"changed": err == nil}, err)
		return nil
	})
}

// InsertOne tạo admin mới (override CRUD mặc định để hash mật khẩu)
func (h *AdminHandler) InsertOne(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.AdminCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		created, err := h.adminService.CreateAdmin(c.Context(), &input)
		h.HandleResponse(c, created, err)
		return nil
	})
}
