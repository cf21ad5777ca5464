package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix 会话 Key 前缀: session:{token} -> sessionInfo JSON
const sessionKeyPrefix = "session:"

// sessionInfo 存储在 Redis 中的会话信息
type sessionInfo struct {
	UserID    int64 `json:"user_id"`
	CreatedAt int64 `json:"created_at"`
}

// RedisStore 基于 Redis 的会话存储，多实例部署时共享
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// buildSessionKey 构建会话 Key: session:{token}
func buildSessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (s *RedisStore) Start(ctx context.Context, userID int64) (string, error) {
	token := newToken()

	data, err := json.Marshal(&sessionInfo{
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.rdb.Set(ctx, buildSessionKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (int64, bool, error) {
	data, err := s.rdb.Get(ctx, buildSessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var info sessionInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return info.UserID, true, nil
}

func (s *RedisStore) End(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, buildSessionKey(token)).Err()
}
