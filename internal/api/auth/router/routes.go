// Package router đăng ký các route thuộc domain auth: đăng nhập, profile, CRUD admin, system.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "bienfaire_commerce/internal/api/auth/handler"
	basehdl "bienfaire_commerce/internal/api/base/handler"
	"bienfaire_commerce/internal/api/middleware"
	apirouter "bienfaire_commerce/internal/api/router"
)

// Register đăng ký tất cả route auth (login, profile, CRUD admin, system) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router, r *apirouter.Router) error {
	adminHandler, err := authhdl.NewAdminHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin handler: %w", err)
	}

	router.Post("/auth/login", adminHandler.HandleLogin)

	authMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authMiddleware}, adminHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/change-password", []fiber.Handler{authMiddleware}, adminHandler.HandleChangePassword)

	// CRUD admin (chỉ cho admin đã đăng nhập)
	r.RegisterCRUDRoutes(router, "/auth/admins", adminHandler, apirouter.ReadWriteConfig, []fiber.Handler{authMiddleware})

	return nil
}
