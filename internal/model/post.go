package model

import "time"

// Post 帖子
// Likes / Dislikes 目前只有默认值 0，没有接口会修改它们
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Likes     int       `json:"likes" db:"likes"`
	Dislikes  int       `json:"dislikes" db:"dislikes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PostView 帖子列表项，author 为作者用户名
type PostView struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}
