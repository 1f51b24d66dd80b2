// Package catalogdto - DTO cho domain catalog (sản phẩm, FAQ, đơn hàng, settings).
package catalogdto

// ProductCreateInput tạo sản phẩm mới
type ProductCreateInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=4000"`
	Category    string  `json:"category" validate:"omitempty,max=120"`
	Price       float64 `json:"price" validate:"required,min=0"`
	Stock       int     `json:"stock" validate:"omitempty,min=0"`
	OutOfStock  bool    `json:"outOfStock"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// ProductUpdateInput cập nhật sản phẩm (partial)
type ProductUpdateInput struct {
	Name        string   `json:"name" validate:"omitempty,max=200"`
	Description string   `json:"description" validate:"omitempty,max=4000"`
	Category    string   `json:"category" validate:"omitempty,max=120"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	OutOfStock  *bool    `json:"outOfStock"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
}

// FaqCreateInput tạo mục FAQ. Question và Category là danh sách
// từ khoá phân tách bằng dấu phẩy.
type FaqCreateInput struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=4000"`
	Category string `json:"category" validate:"omitempty,max=200"`
	Score    int    `json:"score" validate:"omitempty,min=0,max=100"`
}

// FaqUpdateInput cập nhật mục FAQ
type FaqUpdateInput struct {
	Question string `json:"question" validate:"omitempty,max=500"`
	Answer   string `json:"answer" validate:"omitempty,max=4000"`
	Category string `json:"category" validate:"omitempty,max=200"`
	Score    *int   `json:"score" validate:"omitempty,min=0,max=100"`
}

// OrderItemInput một dòng trong đơn hàng
type OrderItemInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required,max=200"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"required,min=0"`
}

// OrderCreateInput tạo đơn hàng
type OrderCreateInput struct {
	CustomerName  string           `json:"customerName" validate:"required,max=120"`
	CustomerEmail string           `json:"customerEmail" validate:"required,email"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Total         float64          `json:"total" validate:"required,min=0"`
}

// OrderUpdateInput cập nhật trạng thái đơn hàng
type OrderUpdateInput struct {
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
}

// ChatbotSettingsUpdateInput cập nhật cấu hình chatbot toàn site
type ChatbotSettingsUpdateInput struct {
	AIEnabled      *bool  `json:"aiEnabled"`
	WelcomeMessage string `json:"welcomeMessage" validate:"omitempty,max=1000"`
}
