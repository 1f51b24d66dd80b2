package main

import (
	"context"

	"bienfaire_commerce/config"
	authmodels "bienfaire_commerce/internal/api/auth/models"
	catalogmodels "bienfaire_commerce/internal/api/catalog/models"
	chatmodels "bienfaire_commerce/internal/api/chat/models"
	deliverymodels "bienfaire_commerce/internal/api/delivery/models"
	"bienfaire_commerce/internal/database"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	// Chat
	global.MongoDB_ColNames.ChatSessions = "chats"
	global.MongoDB_ColNames.ChatMessages = "chat_messages"

	// Catalog
	global.MongoDB_ColNames.Products = "catalog_products"
	global.MongoDB_ColNames.Faq = "catalog_faq"
	global.MongoDB_ColNames.Orders = "catalog_orders"
	global.MongoDB_ColNames.ChatbotSettings = "settings_chatbot"

	// Auth
	global.MongoDB_ColNames.Admins = "auth_admins"
	global.MongoDB_ColNames.BannedUsers = "banned_users"

	// Vận hành
	global.MongoDB_ColNames.AdminLogs = "admin_logs"
	global.MongoDB_ColNames.DeliveryQueue = "delivery_queue"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ChatSessions), chatmodels.ChatSession{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ChatMessages), chatmodels.ChatMessage{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.BannedUsers), chatmodels.BannedUser{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.AdminLogs), chatmodels.AdminLog{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Products), catalogmodels.Product{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Faq), catalogmodels.FaqEntry{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Orders), catalogmodels.Order{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ChatbotSettings), catalogmodels.ChatbotSettings{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Admins), authmodels.Admin{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.DeliveryQueue), deliverymodels.NotificationQueueItem{})

	// Index compound cho các query nóng của kênh chat
	if err := database.CreateChatAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Warnf("Failed to create chat additional indexes: %v", err)
	}
}
