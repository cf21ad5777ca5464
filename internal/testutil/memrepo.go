// Package testutil 测试用的内存仓库实现
package testutil

import (
	"context"
	"sync"
	"time"

	"sudooom.community/internal/model"
	"sudooom.community/internal/repository"
)

// Store 模拟数据库: 自增 id、用户名唯一、外键检查
// Fail 非 nil 时所有操作返回该错误，用于模拟存储故障
type Store struct {
	mu       sync.Mutex
	users    []*model.User
	posts    []*model.Post
	items    []*model.MarketplaceItem
	groups   []*model.ChatGroup
	messages []*model.ChatMessage

	Fail error
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{}
}

// Users 用户仓库视图
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Posts 帖子仓库视图
func (s *Store) Posts() *PostRepo { return &PostRepo{s} }

// Items 商品仓库视图
func (s *Store) Items() *ItemRepo { return &ItemRepo{s} }

// Chat 聊天仓库视图
func (s *Store) Chat() *ChatRepo { return &ChatRepo{s} }

// Counts 各表行数
func (s *Store) Counts() (users, posts, items, groups, messages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), len(s.posts), len(s.items), len(s.groups), len(s.messages)
}

func (s *Store) findUser(id int64) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	user.ID = int64(len(r.s.users) + 1)
	user.CreatedAt = time.Now()
	stored := *user
	r.s.users = append(r.s.users, &stored)
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	for _, u := range r.s.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

type PostRepo struct{ s *Store }

func (r *PostRepo) Create(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if r.s.findUser(post.UserID) == nil {
		return repository.ErrUserNotFound
	}
	post.ID = int64(len(r.s.posts) + 1)
	post.Likes, post.Dislikes = 0, 0
	post.CreatedAt = time.Now()
	stored := *post
	r.s.posts = append(r.s.posts, &stored)
	return nil
}

func (r *PostRepo) List(_ context.Context) ([]*model.PostView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	views := make([]*model.PostView, 0, len(r.s.posts))
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		p := r.s.posts[i]
		views = append(views, &model.PostView{
			ID:       p.ID,
			Content:  p.Content,
			Author:   r.s.findUser(p.UserID).Username,
			Likes:    p.Likes,
			Dislikes: p.Dislikes,
		})
	}
	return views, nil
}

type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, item *model.MarketplaceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if r.s.findUser(item.UserID) == nil {
		return repository.ErrUserNotFound
	}
	item.ID = int64(len(r.s.items) + 1)
	item.CreatedAt = time.Now()
	stored := *item
	r.s.items = append(r.s.items, &stored)
	return nil
}

func (r *ItemRepo) List(_ context.Context) ([]*model.MarketplaceItemView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	views := make([]*model.MarketplaceItemView, 0, len(r.s.items))
	for _, it := range r.s.items {
		views = append(views, &model.MarketplaceItemView{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Category: it.Category,
			Seller:   r.s.findUser(it.UserID).Username,
		})
	}
	return views, nil
}

type ChatRepo struct{ s *Store }

func (r *ChatRepo) CreateGroup(_ context.Context, group *model.ChatGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	group.ID = int64(len(r.s.groups) + 1)
	group.CreatedAt = time.Now()
	stored := *group
	r.s.groups = append(r.s.groups, &stored)
	return nil
}

func (r *ChatRepo) CreateMessage(_ context.Context, msg *model.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if msg.GroupID <= 0 || msg.GroupID > int64(len(r.s.groups)) {
		return repository.ErrGroupNotFound
	}
	if r.s.findUser(msg.UserID) == nil {
		return repository.ErrUserNotFound
	}
	msg.ID = int64(len(r.s.messages) + 1)
	msg.Timestamp = time.Now()
	stored := *msg
	r.s.messages = append(r.s.messages, &stored)
	return nil
}
