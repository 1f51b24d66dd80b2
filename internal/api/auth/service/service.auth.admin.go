// Package authsvc - service quản trị viên (Admin) của console.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	authdto "bienfaire_commerce/internal/api/auth/dto"
	models "bienfaire_commerce/internal/api/auth/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/utility"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL thời gian sống của JWT admin
const tokenTTL = 24 * time.Hour

// AdminService là cấu trúc chứa các phương thức liên quan đến quản trị viên
type AdminService struct {
	*basesvc.BaseServiceMongoImpl[models.Admin]
}

// NewAdminService tạo mới AdminService
func NewAdminService() (*AdminService, error) {
	adminCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Admins)
	if !exist {
		return nil, fmt.Errorf("failed to get admins collection: %v", common.ErrNotFound)
	}

	return &AdminService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Admin](adminCollection),
	}, nil
}

// Login xác thực email/mật khẩu và cấp JWT cho admin.
// Đăng nhập thành công sẽ cập nhật lastLoginAt.
func (s *AdminService) Login(ctx context.Context, input *authdto.AdminLoginInput) (*authdto.AdminLoginResponse, error) {
	admin, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Không tiết lộ email có tồn tại hay không
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.IsActive {
		return nil, common.NewError(common.ErrCodeAuth, "Tài khoản đã bị khóa", common.StatusForbidden, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		logrus.WithField("email", input.Email).Warn("Login: Sai mật khẩu")
		return nil, common.ErrInvalidCredentials
	}

	tokenStr, err := s.createToken(&admin)
	if err != nil {
		logrus.WithError(err).Error("Login: Lỗi tạo JWT token")
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}

	now := time.Now().UnixMilli()
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"lastLoginAt": now},
	}
	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, admin.ID, updateData); err != nil {
		// Đăng nhập vẫn thành công, chỉ log lỗi cập nhật
		logrus.WithError(err).Warn("Login: Lỗi cập nhật lastLoginAt")
	}

	return &authdto.AdminLoginResponse{
		Token: tokenStr,
		Admin: toAdminProfile(&admin, now),
	}, nil
}

// createToken tạo JWT HS256 chứa AdminClaims
func (s *AdminService) createToken(admin *models.Admin) (string, error) {
	now := time.Now()
	claims := &models.AdminClaims{
		AdminID: admin.ID.Hex(),
		Email:   admin.Email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
			Id:        strconv.FormatInt(now.UnixNano(), 16),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(global.ServerConfig.JwtSecret))
}

// GetProfile trả về thông tin admin đang đăng nhập
func (s *AdminService) GetProfile(ctx context.Context, adminID string) (*authdto.AdminProfileResponse, error) {
	objID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "ID admin không hợp lệ", common.StatusBadRequest, err)
	}
	admin, err := s.BaseServiceMongoImpl.FindOneById(ctx, objID)
	if err != nil {
		return nil, err
	}
	profile := toAdminProfile(&admin, admin.LastLoginAt)
	return &profile, nil
}

// ChangePassword đổi mật khẩu cho admin đang đăng nhập.
// Yêu cầu mật khẩu cũ đúng trước khi ghi hash mới.
func (s *AdminService) ChangePassword(ctx context.Context, adminID string, input *authdto.AdminChangePasswordInput) error {
	objID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return common.NewError(common.ErrCodeValidationFormat, "ID admin không hợp lệ", common.StatusBadRequest, err)
	}

	admin, err := s.BaseServiceMongoImpl.FindOneById(ctx, objID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.OldPassword)); err != nil {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu cũ không chính xác", common.StatusUnauthorized, nil)
	}

	if err := utility.ValidatePassword(input.NewPassword); err != nil {
		return err
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"passwordHash": string(newHash)},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, objID, updateData)
	return err
}

// CreateAdmin tạo admin mới từ input CRUD (hash mật khẩu trước khi lưu)
func (s *AdminService) CreateAdmin(ctx context.Context, input *authdto.AdminCreateInput) (*models.Admin, error) {
	if err := utility.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	admin := models.Admin{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, admin)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeBusinessState, "Email đã được sử dụng", common.StatusConflict, nil)
		}
		return nil, err
	}
	return &created, nil
}

// EnsureDefaultAdmin tạo admin mặc định từ config nếu collection chưa có admin nào.
// Gọi khi khởi động server (init data).
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context) error {
	email := global.ServerConfig.AdminDefaultEmail
	password := global.ServerConfig.AdminDefaultPassword
	if email == "" || password == "" {
		logrus.Debug("EnsureDefaultAdmin: Không cấu hình admin mặc định, bỏ qua")
		return nil
	}

	count, err := s.BaseServiceMongoImpl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.CreateAdmin(ctx, &authdto.AdminCreateInput{
		Name:     "Administrateur",
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	logrus.WithField("email", email).Info("EnsureDefaultAdmin: Đã tạo admin mặc định")
	return nil
}

// toAdminProfile chuyển model sang DTO profile (không kèm mật khẩu)
func toAdminProfile(admin *models.Admin, lastLoginAt int64) authdto.AdminProfileResponse {
	return authdto.AdminProfileResponse{
		ID:          admin.ID.Hex(),
		Name:        admin.Name,
		Email:       admin.Email,
		IsActive:    admin.IsActive,
		LastLoginAt: lastLoginAt,
	}
}
