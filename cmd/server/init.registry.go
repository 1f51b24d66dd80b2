package main

import (
	"bienfaire_commerce/config"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {
	// Khởi tạo registry và đăng ký các collections
	err := InitCollections(global.MongoDB_Session, global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		global.MongoDB_ColNames.ChatSessions,
		global.MongoDB_ColNames.ChatMessages,
		global.MongoDB_ColNames.Products,
		global.MongoDB_ColNames.Faq,
		global.MongoDB_ColNames.Orders,
		global.MongoDB_ColNames.ChatbotSettings,
		global.MongoDB_ColNames.Admins,
		global.MongoDB_ColNames.BannedUsers,
		global.MongoDB_ColNames.AdminLogs,
		global.MongoDB_ColNames.DeliveryQueue,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}
