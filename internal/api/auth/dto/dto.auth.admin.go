// Package authdto - DTO cho domain Auth (admin console).
package authdto

// AdminLoginInput đầu vào đăng nhập admin.
type AdminLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse trả về token và thông tin admin sau đăng nhập.
type AdminLoginResponse struct {
	Token string               `json:"token"`
	Admin AdminProfileResponse `json:"admin"`
}

// AdminProfileResponse thông tin admin (không chứa mật khẩu).
type AdminProfileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
	LastLoginAt int64  `json:"lastLoginAt,omitempty"`
}

// AdminCreateInput đầu vào tạo admin (CRUD).
type AdminCreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminUpdateInput đầu vào cập nhật admin.
type AdminUpdateInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

// AdminChangePasswordInput đầu vào đổi mật khẩu.
type AdminChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}
