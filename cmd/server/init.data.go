package main

import (
	"context"
	"time"

	authsvc "bienfaire_commerce/internal/api/auth/service"
	catalogmodels "bienfaire_commerce/internal/api/catalog/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// InitDefaultData seed dữ liệu mặc định khi INITMODE=true:
// admin mặc định (từ env) và document settings_chatbot nếu chưa có.
func InitDefaultData() {
	log := logger.GetAppLogger()

	if !global.ServerConfig.InitMode {
		log.Info("🔄 [INIT] INITMODE=false, bỏ qua seed dữ liệu mặc định")
		return
	}
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Admin mặc định
	adminService, err := authsvc.NewAdminService()
	if err != nil {
		log.Fatalf("Failed to create admin service: %v", err)
	}
	if err := adminService.EnsureDefaultAdmin(ctx); err != nil {
		log.WithError(err).Error("❌ [INIT] Failed to ensure default admin")
	} else {
		log.Info("✅ [INIT] Default admin ensured")
	}

	// 2. Document settings_chatbot (1 document, mặc định AI bật)
	settingsCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatbotSettings)
	if !exist {
		log.Error("❌ [INIT] settings_chatbot collection not registered")
		return
	}
	settingsService := basesvc.NewBaseServiceMongo[catalogmodels.ChatbotSettings](settingsCollection)
	count, err := settingsService.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.WithError(err).Error("❌ [INIT] Failed to count chatbot settings")
		return
	}
	if count == 0 {
		_, err := settingsService.InsertOne(ctx, catalogmodels.ChatbotSettings{
			AIEnabled:      true,
			WelcomeMessage: "Bonjour ! Comment puis-je vous aider aujourd'hui ?",
		})
		if err != nil {
			log.WithError(err).Error("❌ [INIT] Failed to seed chatbot settings")
			return
		}
		log.Info("✅ [INIT] Default chatbot settings seeded")
	}
}
