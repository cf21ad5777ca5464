package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"sudooom.community/internal/model"
	"sudooom.community/internal/repository"
	appErrors "sudooom.community/pkg/errors"
)

// ChatRepository 群组与消息存储
type ChatRepository interface {
	CreateGroup(ctx context.Context, group *model.ChatGroup) error
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
}

// MessagePublisher 新消息通知，可为 nil
type MessagePublisher interface {
	PublishChatMessage(ctx context.Context, msg *model.ChatMessage) error
}

// CreateGroupRequest 建群请求
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// SendMessageRequest 发消息请求，group_id 可以是数字或数字字符串
type SendMessageRequest struct {
	Content string `json:"content"`
	GroupID any    `json:"group_id"`
}

var (
	errMessageFieldsRequired = appErrors.ErrValidation.WithMessage("Content and group ID required")
	errGroupIDNotInteger     = appErrors.ErrValidation.WithMessage("Group ID must be an integer")
)

// ChatService 群聊服务
type ChatService struct {
	chatRepo  ChatRepository
	publisher MessagePublisher
	logger    *slog.Logger
}

// NewChatService 创建群聊服务
func NewChatService(chatRepo ChatRepository, publisher MessagePublisher) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		publisher: publisher,
		logger:    slog.Default().With("service", "chat"),
	}
}

// CreateGroup 创建群组，没有成员概念
func (s *ChatService) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*model.ChatGroup, error) {
	if req.Name == "" {
		return nil, appErrors.ErrValidation.WithMessage("Group name required")
	}
	if err := checkLength("Group name", req.Name, maxGroupNameLen); err != nil {
		return nil, err
	}

	group := &model.ChatGroup{Name: req.Name}
	if err := s.chatRepo.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, repository.ErrValueTooLong) {
			return nil, appErrors.ErrValidation.WithMessage("Group name too long")
		}
		s.logger.Error("Failed to create group", "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}
	return group, nil
}

// SendMessage 向群组发送消息，任何已登录用户都可以向任意群组发送
func (s *ChatService) SendMessage(ctx context.Context, senderID int64, req *SendMessageRequest) (*model.ChatMessage, error) {
	if req.Content == "" {
		return nil, errMessageFieldsRequired
	}
	groupID, err := parseGroupID(req.GroupID)
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		Content: req.Content,
		UserID:  senderID,
		GroupID: groupID,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, appErrors.ErrValidation.WithMessage("Chat group not found")
		}
		s.logger.Error("Failed to create message", "groupId", groupID, "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishChatMessage(ctx, msg); err != nil {
			s.logger.Warn("Failed to publish chat message", "messageId", msg.ID, "error", err)
		}
	}
	return msg, nil
}

// parseGroupID 把 JSON 中的 group_id 转为 int64，缺失、空字符串与 0 视为未填写
func parseGroupID(raw any) (int64, error) {
	var id int64
	switch v := raw.(type) {
	case nil:
		return 0, errMessageFieldsRequired
	case int:
		id = int64(v)
	case int64:
		id = v
	case float64:
		if v != math.Trunc(v) || math.Abs(v) >= math.MaxInt64 {
			return 0, errGroupIDNotInteger
		}
		id = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errGroupIDNotInteger
		}
		id = n
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, errMessageFieldsRequired
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, errGroupIDNotInteger
		}
		id = n
	default:
		return 0, errGroupIDNotInteger
	}

	if id == 0 {
		return 0, errMessageFieldsRequired
	}
	return id, nil
}
