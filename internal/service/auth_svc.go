package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/middleware"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/repository"
)

// ==================== AuthService ====================

// AuthService 注册与登录。只负责令牌签发边界，不承担业务不变量。
type AuthService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, logger: logger}
}

// Register 注册新用户，默认 customer 角色
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterReq) (int64, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("查询用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("email", req.Email), zap.Error(err))
		return 0, fmt.Errorf("创建用户失败: %w", err)
	}

	s.logger.Info("用户已注册", zap.Int64("user_id", user.ID))
	return user.ID, nil
}

// Login 校验密码并签发 Access Token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidLogin
	}

	token, err := middleware.GenerateAccessToken(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	return &dto.LoginResp{Token: token, Name: user.Name, Role: user.Role}, nil
}
