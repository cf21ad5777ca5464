package service

import (
	"context"
	"errors"
	"log/slog"

	"sudooom.community/internal/model"
	"sudooom.community/internal/repository"
	"sudooom.community/internal/session"
	appErrors "sudooom.community/pkg/errors"
)

// UserRepository 身份存储
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult 登录结果
type LoginResult struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

var errPasswordHash = appErrors.NewError(appErrors.KindStorage, "Password hashing failed")

// AuthService 认证服务
type AuthService struct {
	userRepo UserRepository
	sessions session.Store
	logger   *slog.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo UserRepository, sessions session.Store) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   slog.Default().With("service", "auth"),
	}
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, appErrors.ErrValidation.WithMessage("Username and password required")
	}
	if err := checkLength("Username", req.Username, maxUsernameLen); err != nil {
		return nil, err
	}

	// 检查用户名是否存在
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, s.storageError("check username", err)
	}
	if exists {
		return nil, appErrors.ErrDuplicateUsername
	}

	// 密码加密
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, errPasswordHash.Wrap(err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一约束兜底
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, appErrors.ErrDuplicateUsername
		}
		if errors.Is(err, repository.ErrValueTooLong) {
			return nil, appErrors.ErrValidation.WithMessage("Username too long")
		}
		return nil, s.storageError("create user", err)
	}

	s.logger.Info("User registered", "userId", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate 校验用户名密码，用户不存在与密码错误返回同一错误
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (int64, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, appErrors.ErrInvalidCredentials
		}
		return 0, s.storageError("get user", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return 0, appErrors.ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login 登录并开启会话，currentToken 非空时先结束旧会话
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, currentToken string) (*LoginResult, error) {
	userID, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if currentToken != "" {
		if err := s.sessions.End(ctx, currentToken); err != nil {
			s.logger.Warn("Failed to end previous session", "error", err)
		}
	}

	token, err := s.sessions.Start(ctx, userID)
	if err != nil {
		return nil, s.storageError("start session", err)
	}

	s.logger.Info("User logged in", "userId", userID)
	return &LoginResult{UserID: userID, Token: token}, nil
}

// Logout 结束会话，幂等
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.End(ctx, token); err != nil {
		return s.storageError("end session", err)
	}
	return nil
}

func (s *AuthService) storageError(op string, err error) error {
	s.logger.Error("Storage failure", "op", op, "error", err)
	return appErrors.ErrStorage.Wrap(err)
}
