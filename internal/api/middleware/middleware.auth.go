package middleware

import (
	"strings"
	"sync"
	"time"

	authmodels "bienfaire_commerce/internal/api/auth/models"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/utility"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthManager quản lý việc xác thực admin cho middleware.
// Dùng singleton để tránh khởi tạo lại cache mỗi request.
type AuthManager struct {
	adminCache *utility.Cache // Cache admin theo ID, giảm truy vấn DB mỗi request
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về singleton instance của AuthManager
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		authManagerInstance = &AuthManager{
			adminCache: utility.NewCache(5*time.Minute, 10*time.Minute),
		}
	})
	return authManagerInstance
}

// adminExists kiểm tra admin còn tồn tại và đang active trong collection auth_admins.
// Kết quả được cache 5 phút.
func (m *AuthManager) adminExists(c fiber.Ctx, adminID string) bool {
	if cached, found := m.adminCache.Get(adminID); found {
		if ok, isBool := cached.(bool); isBool {
			return ok
		}
	}

	objID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return false
	}

	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Admins)
	if !exist || collection == nil {
		logrus.Error("AuthMiddleware: Không lấy được collection admins từ registry")
		return false
	}

	count, err := collection.CountDocuments(c.Context(), bson.M{"_id": objID, "isActive": true})
	if err != nil {
		logrus.WithError(err).Error("AuthMiddleware: Lỗi kiểm tra admin trong DB")
		return false
	}

	exists := count > 0
	m.adminCache.Set(adminID, exists)
	return exists
}

// AuthMiddleware xác thực admin qua JWT Bearer token.
// Token hợp lệ → set Locals "adminID" và "adminEmail" cho các handler phía sau.
//
// LƯU Ý: phải đăng ký qua RegisterRouteWithMiddleware (xem router/routes.go),
// không truyền trực tiếp vào router.Get/Post.
func AuthMiddleware() fiber.Handler {
	manager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		tokenStr := parts[1]

		claims := &authmodels.AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, common.ErrTokenInvalid
			}
			return []byte(global.ServerConfig.JwtSecret), nil
		})
		if err != nil || !token.Valid {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if claims.AdminID == "" || !manager.adminExists(c, claims.AdminID) {
			HandleErrorResponse(c, common.ErrAdminNotFound)
			return nil
		}

		c.Locals("adminID", claims.AdminID)
		c.Locals("adminEmail", claims.Email)

		return c.Next()
	}
}
