// Package global - Các biến toàn cục của ứng dụng: cấu hình server, session MongoDB,
// validator và registry các collection. Được khởi tạo một lần trong cmd/server/init.go.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"bienfaire_commerce/config"
	"bienfaire_commerce/internal/registry"
)

// MongoDBColNames cấu trúc lưu tên các collection trong database
type MongoDBColNames struct {
	// Chat
	ChatSessions string // Phiên chat (chats)
	ChatMessages string // Tin nhắn chat (chat_messages)

	// Catalog
	Products        string // Sản phẩm (catalog_products)
	Faq             string // Câu hỏi thường gặp (catalog_faq)
	Orders          string // Đơn hàng (catalog_orders)
	ChatbotSettings string // Cấu hình chatbot (settings_chatbot, 1 document)

	// Auth
	Admins      string // Quản trị viên (auth_admins)
	BannedUsers string // Khách bị chặn (banned_users)

	// Vận hành
	AdminLogs     string // Nhật ký thao tác admin (admin_logs)
	DeliveryQueue string // Hàng đợi webhook notification (delivery_queue)
}

var (
	// Validate validator singleton dùng cho DTO
	Validate *validator.Validate

	// ServerConfig cấu hình server (load từ env)
	ServerConfig *config.Configuration

	// MongoDB_Session session kết nối MongoDB
	MongoDB_Session *mongo.Client

	// MongoDB_ColNames tên các collection (gán trong cmd/server/init.go)
	MongoDB_ColNames MongoDBColNames

	// RegistryCollections registry các collection đang hoạt động
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)
