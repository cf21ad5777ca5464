package repository

import (
	"context"

	"sudooom.community/internal/model"
)

// PostRepository 帖子数据访问
type PostRepository struct {
	db DB
}

// NewPostRepository 创建帖子仓库
func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 创建帖子，点赞/点踩计数由表默认值初始化为 0
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (content, user_id)
		VALUES ($1, $2)
		RETURNING id, likes, dislikes, created_at
	`
	err := r.db.QueryRow(ctx, query, post.Content, post.UserID).
		Scan(&post.ID, &post.Likes, &post.Dislikes, &post.CreatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// List 全部帖子，按 id 倒序（最新在前）
func (r *PostRepository) List(ctx context.Context) ([]*model.PostView, error) {
	query := `
		SELECT p.id, p.content, u.username, p.likes, p.dislikes
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.PostView, 0)
	for rows.Next() {
		post := &model.PostView{}
		if err := rows.Scan(
			&post.ID,
			&post.Content,
			&post.Author,
			&post.Likes,
			&post.Dislikes,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
