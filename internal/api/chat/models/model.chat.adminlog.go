// Package models - AdminLog thuộc domain Chat (collection admin_logs).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Hành động được ghi nhật ký
const (
	LogActionClearAll      = "chat_clear_all"
	LogActionCleanupNoise  = "chat_cleanup_noise"
	LogActionCloseSession  = "chat_close"
	LogActionBanUser       = "chat_ban_user"
	LogActionUnbanUser     = "chat_unban_user"
	LogActionTransfer      = "chat_transfer"
	LogActionExport        = "chat_export"
)

// AdminLog ghi lại một thao tác quản trị (bulk/destructive) để audit.
type AdminLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AdminID    string             `json:"adminId" bson:"adminId,omitempty"`
	AdminEmail string             `json:"adminEmail" bson:"adminEmail,omitempty"`
	Action     string             `json:"action" bson:"action" index:"single:1"`
	Target     string             `json:"target" bson:"target,omitempty"` // chatId hoặc email tùy action
	Details    string             `json:"details" bson:"details,omitempty"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt,omitempty" index:"single:-1"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
