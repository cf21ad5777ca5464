package handler

import (
	"github.com/gin-gonic/gin"

	"sudooom.community/internal/middleware"
	"sudooom.community/internal/service"
	"sudooom.community/pkg/response"
)

// PostHandler 帖子处理器
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler 创建帖子处理器
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create 发帖
// @Summary      发帖
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Param        request body service.CreatePostRequest true "帖子内容"
// @Success      201  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.postService.CreatePost(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, "Post created successfully", nil)
}

// List 帖子列表，最新在前
// @Summary      帖子列表
// @Tags         帖子
// @Produce      json
// @Success      200  {array}  model.PostView
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, posts)
}
