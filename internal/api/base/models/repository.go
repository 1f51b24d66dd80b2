// Package models chứa kiểu kết quả dùng chung cho layer base service.
package models

// PaginateResult gói danh sách mục của một trang kèm thông tin phân trang.
// Response chuẩn của FindWithPagination trên mọi collection.
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`           // Trang hiện tại (bắt đầu từ 1)
	Limit     int64 `json:"limit" bson:"limit"`         // Số mục mỗi trang
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // Số mục trong trang này
	Items     []T   `json:"items" bson:"items"`         // Các mục của trang
	Total     int64 `json:"total" bson:"total"`         // Tổng số mục khớp filter
	TotalPage int64 `json:"totalPage" bson:"totalPage"` // Tổng số trang
}
