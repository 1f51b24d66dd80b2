// Package models - Admin thuộc domain Auth (auth_admins).
// Lưu tài khoản quản trị viên đăng nhập Admin Console.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin lưu tài khoản quản trị viên (auth_admins).
type Admin struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email" index:"single:1;unique"`

	// PasswordHash là bcrypt hash, không bao giờ trả về client
	PasswordHash string `json:"-" bson:"passwordHash"`

	IsActive bool `json:"isActive" bson:"isActive" default:"true"`

	LastLoginAt int64 `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
