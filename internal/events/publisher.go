package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"sudooom.community/internal/config"
	"sudooom.community/internal/model"
)

// SubjectChatGroupPrefix 群聊消息 Subject 前缀
// 完整格式: community.chat.group.{group_id}
const SubjectChatGroupPrefix = "community.chat.group."

// BuildChatGroupSubject 构建群组消息 Subject
func BuildChatGroupSubject(groupID int64) string {
	return SubjectChatGroupPrefix + strconv.FormatInt(groupID, 10)
}

// ChatMessageEvent 新消息事件
type ChatMessageEvent struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessagePublisher 消息发布器
type MessagePublisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	observe func(err error)
}

var errDisconnected = errors.New("nats: not connected")

// Connect 连接 NATS 并创建消息发布器
func Connect(cfg config.NATSConfig) (*MessagePublisher, error) {
	logger := slog.Default().With("component", "events")
	nc, err := nats.Connect(cfg.URL,
		nats.Name("community"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(10*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("Chat events disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Chat events reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	return NewMessagePublisher(nc), nil
}

// NewMessagePublisher 基于已有连接创建消息发布器
func NewMessagePublisher(nc *nats.Conn) *MessagePublisher {
	return &MessagePublisher{
		nc:     nc,
		logger: slog.Default().With("component", "events"),
	}
}

// Ping 连接断开时返回错误，用于健康检查
func (p *MessagePublisher) Ping(context.Context) error {
	if !p.nc.IsConnected() {
		return errDisconnected
	}
	return nil
}

// Close 排空未发送的消息后关闭连接
func (p *MessagePublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

// OnPublish 设置发布结果回调（用于指标）
func (p *MessagePublisher) OnPublish(fn func(err error)) *MessagePublisher {
	p.observe = fn
	return p
}

// PublishChatMessage 推送新消息到群组 Subject
func (p *MessagePublisher) PublishChatMessage(_ context.Context, msg *model.ChatMessage) error {
	err := p.publish(msg)
	if p.observe != nil {
		p.observe(err)
	}
	return err
}

func (p *MessagePublisher) publish(msg *model.ChatMessage) error {
	data, err := json.Marshal(&ChatMessageEvent{
		ID:        msg.ID,
		GroupID:   msg.GroupID,
		SenderID:  msg.UserID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return err
	}

	subject := BuildChatGroupSubject(msg.GroupID)
	if err := p.nc.Publish(subject, data); err != nil {
		return err
	}

	p.logger.Debug("Published chat message", "subject", subject, "messageId", msg.ID)
	return nil
}
