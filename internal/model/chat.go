package model

import "time"

// ChatGroup 聊天群组
type ChatGroup struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatMessage 群聊消息，Timestamp 由数据库在插入时生成
type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	UserID    int64     `json:"user_id" db:"user_id"`
	GroupID   int64     `json:"group_id" db:"group_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
