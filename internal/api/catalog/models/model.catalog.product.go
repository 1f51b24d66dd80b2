// Package models - Product thuộc domain Catalog (collection catalog_products).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product là sản phẩm của cửa hàng, bot tra cứu khi khách hỏi tồn kho/giá.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" index:"single:1"`
	Description string             `json:"description" bson:"description,omitempty"`
	Category    string             `json:"category" bson:"category,omitempty" index:"single:1"`
	Price       float64            `json:"price" bson:"price,omitempty"`
	Stock       int                `json:"stock" bson:"stock,omitempty"`
	OutOfStock  bool               `json:"outOfStock" bson:"outOfStock,omitempty"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl,omitempty"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
