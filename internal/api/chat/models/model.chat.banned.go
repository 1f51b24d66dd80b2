// Package models - BannedUser thuộc domain Chat (collection banned_users).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BannedUser là khách bị chặn gửi tin nhắn (theo email).
type BannedUser struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email" index:"single:1;unique"`
	Reason    string             `json:"reason" bson:"reason,omitempty"`
	BannedBy  string             `json:"bannedBy" bson:"bannedBy,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
