// Package authmodels định nghĩa các model liên quan đến xác thực admin
package authmodels

import (
	"github.com/golang-jwt/jwt/v4"
)

// AdminClaims chứa thông tin admin được mã hóa trong JWT token
type AdminClaims struct {
	UserID string `json:"userId"` // ID của admin trong hệ thống quản trị
	Email  string `json:"email"`  // Email admin
	jwt.RegisteredClaims
}
