// Package models - FaqEntry thuộc domain Catalog (collection catalog_faq).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FaqEntry là một mục FAQ do admin soạn: danh sách từ khóa → câu trả lời.
// Question và Category là danh sách từ khóa phân cách bởi dấu phẩy.
type FaqEntry struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Question  string             `json:"question" bson:"question"`
	Answer    string             `json:"answer" bson:"answer"`
	Category  string             `json:"category" bson:"category,omitempty"`
	Score     int                `json:"score" bson:"score,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
