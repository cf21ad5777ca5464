package service

import (
	"context"
	"log/slog"

	"sudooom.community/internal/model"
	appErrors "sudooom.community/pkg/errors"
)

// PostRepository 帖子存储
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	List(ctx context.Context) ([]*model.PostView, error)
}

// CreatePostRequest 发帖请求
type CreatePostRequest struct {
	Content string `json:"content"`
}

// PostService 帖子服务
type PostService struct {
	postRepo PostRepository
	logger   *slog.Logger
}

// NewPostService 创建帖子服务
func NewPostService(postRepo PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		logger:   slog.Default().With("service", "post"),
	}
}

// CreatePost 发帖
func (s *PostService) CreatePost(ctx context.Context, ownerID int64, req *CreatePostRequest) (*model.Post, error) {
	if req.Content == "" {
		return nil, appErrors.ErrValidation.WithMessage("Post content required")
	}

	post := &model.Post{
		Content: req.Content,
		UserID:  ownerID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create post", "userId", ownerID, "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}
	return post, nil
}

// ListPosts 全部帖子，最新在前
func (s *PostService) ListPosts(ctx context.Context) ([]*model.PostView, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list posts", "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}
	return posts, nil
}
