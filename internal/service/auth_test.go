package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.community/internal/session"
	"sudooom.community/internal/testutil"
	appErrors "sudooom.community/pkg/errors"
)

func newAuthService(t *testing.T) (*AuthService, *testutil.Store, *session.MemoryStore) {
	t.Helper()
	store := testutil.NewStore()
	sessions := session.NewMemoryStore(0)
	return NewAuthService(store.Users(), sessions), store, sessions
}

func TestAuthService_Register(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash, "密码不能明文存储")

	stored, err := store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "pw1")
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	// 无论密码是否相同，第二次注册都失败
	for _, pw := range []string{"pw1", "different"} {
		_, err = svc.Register(ctx, &RegisterRequest{Username: "alice", Password: pw})
		assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateUsername))
	}

	users, _, _, _, _ := store.Counts()
	assert.Equal(t, 1, users)
}

func TestAuthService_Register_CaseSensitive(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &RegisterRequest{Username: "Alice", Password: "pw"})
	assert.NoError(t, err)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, store, _ := newAuthService(t)

	testCases := []struct {
		name string
		req  RegisterRequest
	}{
		{"缺少用户名", RegisterRequest{Password: "pw"}},
		{"缺少密码", RegisterRequest{Username: "alice"}},
		{"全部为空", RegisterRequest{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tc.req)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
		})
	}

	users, _, _, _, _ := store.Counts()
	assert.Zero(t, users)
}

func TestAuthService_Register_StorageError(t *testing.T) {
	svc, store, _ := newAuthService(t)
	store.Fail = errors.New("connection reset")

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "pw"})
	assert.Equal(t, appErrors.KindStorage, appErrors.KindOf(err))
	assert.Contains(t, appErrors.MessageOf(err), "connection reset")
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	userID, err := svc.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// 任意单字符变化都应失败
	for _, pw := range []string{"secreT", "secre", "secrets", "xecret", ""} {
		_, err := svc.Authenticate(ctx, "alice", pw)
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials), "password %q", pw)
	}
}

func TestAuthService_Authenticate_UnknownUserSameError(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, errUnknown := svc.Authenticate(ctx, "bob", "secret")
	_, errWrong := svc.Authenticate(ctx, "alice", "wrong")

	assert.Equal(t, appErrors.MessageOf(errUnknown), appErrors.MessageOf(errWrong))
	assert.Equal(t, appErrors.StatusOf(errUnknown), appErrors.StatusOf(errWrong))
}

func TestAuthService_LoginReplacesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	first, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "pw"}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)

	second, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "pw"}, first.Token)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	_, ok, _ := sessions.Lookup(ctx, first.Token)
	assert.False(t, ok, "旧会话应被替换")
	userID, ok, _ := sessions.Lookup(ctx, second.Token)
	assert.True(t, ok)
	assert.Equal(t, second.UserID, userID)
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	token, err := sessions.Start(ctx, 1)
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx, token))
	assert.NoError(t, svc.Logout(ctx, token))
	assert.NoError(t, svc.Logout(ctx, ""))
	assert.Zero(t, sessions.Len())
}

func TestAuthService_LongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	password := strings.Repeat("p", 100)

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: password})
	require.NoError(t, err)

	userID, err := svc.Authenticate(ctx, "alice", password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// 超过 72 字节之后的变化同样要被识别
	mutated := password[:80] + "q" + password[81:]
	_, err = svc.Authenticate(ctx, "alice", mutated)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Authenticate(ctx, "alice", password+"p")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthService_Register_UsernameTooLong(t *testing.T) {
	svc, store, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: strings.Repeat("a", 51), Password: "pw"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 400, appErrors.StatusOf(err))

	// 50 个字符（含多字节字符）可以注册
	_, err = svc.Register(context.Background(), &RegisterRequest{Username: strings.Repeat("名", 50), Password: "pw"})
	assert.NoError(t, err)

	users, _, _, _, _ := store.Counts()
	assert.Equal(t, 1, users)
}
