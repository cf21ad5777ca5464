package handler

import (
	"github.com/gin-gonic/gin"

	"sudooom.community/internal/middleware"
	"sudooom.community/internal/service"
	"sudooom.community/pkg/response"
)

// ChatHandler 群聊处理器
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 创建群聊处理器
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateGroup 创建群组
// @Summary      创建群组
// @Tags         群聊
// @Accept       json
// @Produce      json
// @Param        request body service.CreateGroupRequest true "群组名"
// @Success      201  {object}  response.Response{group_id=int64}
// @Failure      401  {object}  response.Response
// @Router       /chat/groups [post]
func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.chatService.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, "Chat group created successfully", gin.H{"group_id": group.ID})
}

// SendMessage 发送群聊消息
// @Summary      发送群聊消息
// @Tags         群聊
// @Accept       json
// @Produce      json
// @Param        request body service.SendMessageRequest true "消息"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.chatService.SendMessage(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, "Message sent successfully", nil)
}
