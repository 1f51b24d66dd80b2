// Package models - AdminClaims thuộc domain Auth.
package models

import jwt "github.com/dgrijalva/jwt-go"

// AdminClaims chứa data được mã hóa trong JWT token cấp cho admin.
type AdminClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	jwt.StandardClaims
}
