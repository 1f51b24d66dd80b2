// Package router đăng ký route domain chat: widget public + quản trị sau JWT.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	chathdl "bienfaire_commerce/internal/api/chat/handler"
	"bienfaire_commerce/internal/api/middleware"
	apirouter "bienfaire_commerce/internal/api/router"
)

// Register đăng ký toàn bộ route chat lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerWidgetRoutes(v1); err != nil {
		return err
	}
	if err := registerAdminRoutes(v1); err != nil {
		return err
	}
	return nil
}

// registerWidgetRoutes các endpoint public của widget storefront
func registerWidgetRoutes(router fiber.Router) error {
	widgetHandler, err := chathdl.NewWidgetHandler()
	if err != nil {
		return fmt.Errorf("failed to create widget handler: %w", err)
	}

	router.Post("/chat/start", widgetHandler.HandleStart)
	router.Post("/chat/send", widgetHandler.HandleSend)
	router.Get("/chat/feed", widgetHandler.HandleFeed)
	router.Post("/chat/presence", widgetHandler.HandlePresence)
	router.Post("/chat/request-human", widgetHandler.HandleRequestHuman)
	router.Post("/chat/rate", widgetHandler.HandleRate)

	return nil
}

// registerAdminRoutes các endpoint quản trị, tất cả sau AuthMiddleware
func registerAdminRoutes(router fiber.Router) error {
	adminHandler, err := chathdl.NewAdminChatHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin chat handler: %w", err)
	}

	auth := []fiber.Handler{middleware.AuthMiddleware()}
	prefix := "/admin/chat"

	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/sessions", auth, adminHandler.HandleListSessions)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/feed", auth, adminHandler.HandleFeed)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/search", auth, adminHandler.HandleSearch)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/reply", auth, adminHandler.HandleReply)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/note", auth, adminHandler.HandleNote)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/mark-read", auth, adminHandler.HandleMarkRead)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/priority", auth, adminHandler.HandleSetPriority)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/join", auth, adminHandler.HandleJoin)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/leave", auth, adminHandler.HandleLeave)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/transfer", auth, adminHandler.HandleTransfer)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/resume-ai", auth, adminHandler.HandleResumeAI)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/close", auth, adminHandler.HandleClose)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/ban", auth, adminHandler.HandleBan)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/unban", auth, adminHandler.HandleUnban)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/banned", auth, adminHandler.HandleListBanned)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/clear-all", auth, adminHandler.HandleClearAll)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/cleanup-noise", auth, adminHandler.HandleCleanupNoise)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/export", auth, adminHandler.HandleExport)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/kpi", auth, adminHandler.HandleKPI)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "POST", "/backfill-identity", auth, adminHandler.HandleBackfillIdentity)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/quick-replies", auth, adminHandler.HandleQuickReplies)
	apirouter.RegisterRouteWithMiddleware(router, prefix, "GET", "/logs", auth, adminHandler.HandleLogs)

	return nil
}
