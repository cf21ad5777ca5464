package repository

import (
	"context"
	"strings"

	"sudooom.community/internal/model"
)

// ChatRepository 群组与群聊消息数据访问
type ChatRepository struct {
	db DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateGroup 创建群组
func (r *ChatRepository) CreateGroup(ctx context.Context, group *model.ChatGroup) error {
	query := `
		INSERT INTO chat_groups (name)
		VALUES ($1)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, group.Name).Scan(&group.ID, &group.CreatedAt)
	if code, _ := pgErrorCode(err); code == pgStringTooLong {
		return ErrValueTooLong
	}
	return err
}

// CreateMessage 发送群聊消息，timestamp 由数据库生成
// 群组或发送者不存在时由外键约束拒绝
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (content, user_id, group_id)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`
	err := r.db.QueryRow(ctx, query,
		msg.Content,
		msg.UserID,
		msg.GroupID,
	).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		code, constraint := pgErrorCode(err)
		if code == pgForeignKeyViolation {
			if strings.Contains(constraint, "group_id") {
				return ErrGroupNotFound
			}
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
