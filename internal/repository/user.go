package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"sudooom.community/internal/model"
)

// UserRepository 用户数据访问
type UserRepository struct {
	db DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，用户名冲突返回 ErrUsernameExists
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return ErrUsernameExists
		case pgStringTooLong:
			return ErrValueTooLong
		}
		return err
	}
	return nil
}

// GetByUsername 通过用户名获取用户（区分大小写）
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`
	user := &model.User{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ExistsByUsername 检查用户名是否存在
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	return exists, err
}
