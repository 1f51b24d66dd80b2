// Package router đăng ký route domain catalog: đọc public cho storefront,
// CRUD đầy đủ cho admin sau JWT.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	cataloghdl "bienfaire_commerce/internal/api/catalog/handler"
	"bienfaire_commerce/internal/api/middleware"
	apirouter "bienfaire_commerce/internal/api/router"
)

// Register đăng ký toàn bộ route catalog lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	productHandler, err := cataloghdl.NewProductHandler()
	if err != nil {
		return fmt.Errorf("failed to create product handler: %w", err)
	}
	faqHandler, err := cataloghdl.NewFaqHandler()
	if err != nil {
		return fmt.Errorf("failed to create faq handler: %w", err)
	}
	orderHandler, err := cataloghdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("failed to create order handler: %w", err)
	}
	settingsHandler, err := cataloghdl.NewSettingsHandler()
	if err != nil {
		return fmt.Errorf("failed to create settings handler: %w", err)
	}

	// Storefront đọc catalog không cần đăng nhập
	r.RegisterCRUDRoutes(v1, "/catalog/products", productHandler, apirouter.ReadOnlyConfig, nil)
	r.RegisterCRUDRoutes(v1, "/catalog/faq", faqHandler, apirouter.ReadOnlyConfig, nil)

	// Admin quản lý catalog đầy đủ
	auth := []fiber.Handler{middleware.AuthMiddleware()}
	r.RegisterCRUDRoutes(v1, "/admin/catalog/products", productHandler, apirouter.ReadWriteConfig, auth)
	r.RegisterCRUDRoutes(v1, "/admin/catalog/faq", faqHandler, apirouter.ReadWriteConfig, auth)
	r.RegisterCRUDRoutes(v1, "/admin/catalog/orders", orderHandler, apirouter.ReadWriteConfig, auth)
	r.RegisterCRUDRoutes(v1, "/admin/catalog/settings", settingsHandler, apirouter.SettingsConfig, auth)

	return nil
}
