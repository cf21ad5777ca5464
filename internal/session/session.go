// Package session 会话网关: 不透明 token -> 用户 ID
package session

import (
	"context"

	"github.com/google/uuid"
)

// Store 会话存储
type Store interface {
	// Start 为用户创建新会话并返回 token
	Start(ctx context.Context, userID int64) (string, error)
	// Lookup 查询 token 对应的用户，ok=false 表示未登录
	Lookup(ctx context.Context, token string) (userID int64, ok bool, err error)
	// End 删除会话，token 不存在时不报错
	End(ctx context.Context, token string) error
}

// newToken 生成不透明会话 token
func newToken() string {
	return uuid.NewString()
}
