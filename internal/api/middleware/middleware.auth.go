package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	authmodels "clone_studio/internal/api/auth/models"
	"clone_studio/internal/common"
	"clone_studio/internal/global"
	"clone_studio/internal/logger"
)

// AuthMiddleware middleware xác thực admin cho Fiber.
// Token là JWT ký HMAC bởi hệ thống quản trị, chứa userId và email của admin.
// Sau khi xác thực, thông tin admin được lưu vào Locals("adminId") và Locals("adminEmail").
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		tokenString := parts[1]

		// Parse và verify JWT với secret trong config
		claims := &authmodels.AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, common.ErrTokenInvalid
			}
			return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				logger.GetAppLogger().WithFields(logrus.Fields{
					"path": c.Path(),
				}).Warn("❌ [AUTH] Token expired")
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid token")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if !token.Valid {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Lưu thông tin admin vào context để handler và audit log sử dụng
		c.Locals("adminId", claims.UserID)
		c.Locals("adminEmail", claims.Email)

		return c.Next()
	}
}
