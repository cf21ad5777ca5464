package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.community/internal/model"
	"sudooom.community/internal/testutil"
	appErrors "sudooom.community/pkg/errors"
)

func seedUser(t *testing.T, store *testutil.Store, username string) int64 {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user.ID
}

func TestPostService_CreateAndList(t *testing.T) {
	store := testutil.NewStore()
	svc := NewPostService(store.Posts())
	ctx := context.Background()

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	aliceID := seedUser(t, store, "alice")
	const n = 5
	for i := 1; i <= n; i++ {
		post, err := svc.CreatePost(ctx, aliceID, &CreatePostRequest{Content: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
		assert.Zero(t, post.Likes)
		assert.Zero(t, post.Dislikes)
	}

	posts, err = svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, n)
	for i := 1; i < len(posts); i++ {
		assert.Greater(t, posts[i-1].ID, posts[i].ID, "按 id 倒序")
	}
	assert.Equal(t, "post 5", posts[0].Content)
	assert.Equal(t, "alice", posts[0].Author)
}

func TestPostService_EmptyContent(t *testing.T) {
	store := testutil.NewStore()
	svc := NewPostService(store.Posts())

	_, err := svc.CreatePost(context.Background(), seedUser(t, store, "alice"), &CreatePostRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Post content required", appErrors.MessageOf(err))
}

func TestPostService_StorageError(t *testing.T) {
	store := testutil.NewStore()
	svc := NewPostService(store.Posts())
	store.Fail = errors.New("db down")

	_, err := svc.ListPosts(context.Background())
	assert.Equal(t, appErrors.KindStorage, appErrors.KindOf(err))
}

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name    string
		raw     any
		want    float64
		wantErr *appErrors.AppError
	}{
		{"数字", 150.0, 150, nil},
		{"字符串", "150", 150, nil},
		{"小数字符串", " 12.50 ", 12.5, nil},
		{"json.Number", json.Number("9.99"), 9.99, nil},
		{"负数", -3.0, -3, nil},
		{"缺失", nil, 0, errItemFieldsRequired},
		{"空字符串", "", 0, errItemFieldsRequired},
		{"零", 0.0, 0, errItemFieldsRequired},
		{"非数字", "cheap", 0, errPriceNotNumeric},
		{"NaN", "NaN", 0, errPriceNotNumeric},
		{"布尔", true, 0, errPriceNotNumeric},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePrice(tc.raw)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr.Message, appErrors.MessageOf(err))
				assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestMarketplaceService_CreateAndList(t *testing.T) {
	store := testutil.NewStore()
	svc := NewMarketplaceService(store.Items())
	ctx := context.Background()
	bobID := seedUser(t, store, "bob")

	item, err := svc.CreateItem(ctx, bobID, &CreateItemRequest{Name: "Bike", Price: "150", Category: "Sports"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, item.Price)

	_, err = svc.CreateItem(ctx, bobID, &CreateItemRequest{Name: "Lamp", Price: 20.0})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bob", items[0].Seller)
	assert.Equal(t, "Sports", items[0].Category)
}

type recordingPublisher struct {
	published []*model.ChatMessage
	err       error
}

func (p *recordingPublisher) PublishChatMessage(_ context.Context, msg *model.ChatMessage) error {
	p.published = append(p.published, msg)
	return p.err
}

func TestChatService_GroupAndMessage(t *testing.T) {
	store := testutil.NewStore()
	publisher := &recordingPublisher{}
	svc := NewChatService(store.Chat(), publisher)
	ctx := context.Background()
	carolID := seedUser(t, store, "carol")

	_, err := svc.CreateGroup(ctx, &CreateGroupRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	group, err := svc.CreateGroup(ctx, &CreateGroupRequest{Name: "general"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), group.ID)

	msg, err := svc.SendMessage(ctx, carolID, &SendMessageRequest{Content: "hi", GroupID: group.ID})
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.IsZero())
	require.Len(t, publisher.published, 1)
	assert.Equal(t, msg.ID, publisher.published[0].ID)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	store := testutil.NewStore()
	svc := NewChatService(store.Chat(), nil)
	ctx := context.Background()
	carolID := seedUser(t, store, "carol")

	testCases := []struct {
		name    string
		req     SendMessageRequest
		message string
	}{
		{"缺少内容", SendMessageRequest{GroupID: 1}, "Content and group ID required"},
		{"缺少群组", SendMessageRequest{Content: "hi"}, "Content and group ID required"},
		{"群组不存在", SendMessageRequest{Content: "hi", GroupID: 42}, "Chat group not found"},
		{"群组为零", SendMessageRequest{Content: "hi", GroupID: "0"}, "Content and group ID required"},
		{"群组非整数", SendMessageRequest{Content: "hi", GroupID: "abc"}, "Group ID must be an integer"},
		{"群组为小数", SendMessageRequest{Content: "hi", GroupID: 1.5}, "Group ID must be an integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SendMessage(ctx, carolID, &tc.req)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
			assert.Equal(t, tc.message, appErrors.MessageOf(err))
		})
	}

	_, _, _, _, messages := store.Counts()
	assert.Zero(t, messages)
}

func TestChatService_PublishFailureDoesNotFailSend(t *testing.T) {
	store := testutil.NewStore()
	publisher := &recordingPublisher{err: errors.New("nats unavailable")}
	svc := NewChatService(store.Chat(), publisher)
	ctx := context.Background()
	carolID := seedUser(t, store, "carol")

	group, err := svc.CreateGroup(ctx, &CreateGroupRequest{Name: "general"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, carolID, &SendMessageRequest{Content: "hi", GroupID: group.ID})
	assert.NoError(t, err)
}

func TestParseGroupID(t *testing.T) {
	testCases := []struct {
		name string
		raw  any
		want int64
	}{
		{"数字", float64(3), 3},
		{"字符串", "3", 3},
		{"带空格字符串", " 7 ", 7},
		{"json.Number", json.Number("12"), 12},
		{"int64", int64(5), 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseGroupID(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestContentServices_FieldLengths(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()
	bobID := seedUser(t, store, "bob")
	items := NewMarketplaceService(store.Items())
	chat := NewChatService(store.Chat(), nil)

	_, err := items.CreateItem(ctx, bobID, &CreateItemRequest{Name: strings.Repeat("n", 101), Price: 1.0, Category: "Misc"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = items.CreateItem(ctx, bobID, &CreateItemRequest{Name: "Hat", Price: 1.0, Category: strings.Repeat("c", 51)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = chat.CreateGroup(ctx, &CreateGroupRequest{Name: strings.Repeat("g", 101)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, _, itemCount, groups, _ := store.Counts()
	assert.Zero(t, itemCount)
	assert.Zero(t, groups)
}
