package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"genassist/internal/clock"
	"genassist/internal/models"
	"genassist/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 6

// ErrInvalidSignup 注册参数不合法
var ErrInvalidSignup = errors.New("注册参数不合法")

// SignupRequest 注册请求
type SignupRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
}

// Service 用户服务
type Service struct {
	repo   storage.UserRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewService 创建用户服务
func NewService(repo storage.UserRepository, zl *zap.Logger) *Service {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		now:    clock.NewReal().Now,
		logger: zl,
	}
}

// Signup 注册用户，密码以 bcrypt 哈希保存；用户名重复时返回 storage.ErrDuplicate
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: 用户名不能为空", ErrInvalidSignup)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: 密码长度至少 %d 位", ErrInvalidSignup, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}

	u := &models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Password:   string(hash),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Department: req.Department,
		CreatedAt:  s.now(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Get 查询用户
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// VerifyPassword 校验明文密码
func VerifyPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// EnsureSeed 确保默认用户存在，已存在时不做任何事
func (s *Service) EnsureSeed(ctx context.Context, id string) error {
	if _, err := s.repo.GetUser(ctx, id); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("查询默认用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	seed := &models.User{
		ID:        id,
		Username:  id,
		Password:  string(hash),
		Name:      "Default User",
		Email:     "user@example.com",
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateUser(ctx, seed); err != nil && !errors.Is(err, storage.ErrDuplicate) {
		return fmt.Errorf("创建默认用户失败: %w", err)
	}
	s.logger.Info("默认用户已就绪", zap.String("user_id", id))
	return nil
}
