// Package models - ChatbotSettings thuộc domain Catalog (collection settings_chatbot, 1 document).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatbotSettings cấu hình toàn site của chatbot, do admin bật/tắt.
type ChatbotSettings struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AIEnabled      bool               `json:"aiEnabled" bson:"aiEnabled,omitempty" default:"true"`
	WelcomeMessage string             `json:"welcomeMessage" bson:"welcomeMessage,omitempty"`
	UpdatedBy      string             `json:"updatedBy" bson:"updatedBy,omitempty"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
