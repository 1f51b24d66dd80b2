// Package models - Order thuộc domain Catalog (collection catalog_orders).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// OrderItem một dòng sản phẩm trong đơn hàng.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId,omitempty"`
	Name      string  `json:"name" bson:"name,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity,omitempty"`
	Price     float64 `json:"price" bson:"price,omitempty"`
}

// Order là đơn hàng của khách (surface read-only cho admin console).
type Order struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerName  string             `json:"customerName" bson:"customerName,omitempty"`
	CustomerEmail string             `json:"customerEmail" bson:"customerEmail,omitempty" index:"single:1"`
	Items         []OrderItem        `json:"items" bson:"items,omitempty"`
	Total         float64            `json:"total" bson:"total,omitempty"`
	Status        string             `json:"status" bson:"status,omitempty" default:"pending"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt,omitempty" index:"single:-1"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt,omitempty"`
}
