package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"sudooom.community/internal/session"
	"sudooom.community/pkg/response"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyToken  = "session_token"
)

// Session 解析会话 token 并写入 context，不拦截未登录请求
// token 来源: cookie，其次 Authorization: Bearer；前一个查不到会话时尝试下一个
// 会话存储不可用时按未登录处理，受保护接口由 RequireSession 返回 401
func Session(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := extractTokens(c, cookieName)
		if len(tokens) == 0 {
			c.Next()
			return
		}
		// 即使会话已失效，logout 也需要拿到客户端出示的 token
		c.Set(ctxKeyToken, tokens[0])

		for _, token := range tokens {
			userID, ok, err := store.Lookup(c.Request.Context(), token)
			if err != nil {
				slog.Warn("Session lookup failed", "error", err)
				continue
			}
			if ok {
				c.Set(ctxKeyToken, token)
				c.Set(ctxKeyUserID, userID)
				break
			}
		}
		c.Next()
	}
}

// RequireSession 要求已登录
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxKeyUserID); !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractTokens 按优先级返回 cookie 与 Authorization header 中的 token
func extractTokens(c *gin.Context, cookieName string) []string {
	var tokens []string
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		tokens = append(tokens, token)
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		if token := strings.TrimSpace(parts[1]); token != "" && (len(tokens) == 0 || tokens[0] != token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// GetUserID 从 context 获取 user_id
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get(ctxKeyUserID)
	if !exists {
		return 0
	}
	return userID.(int64)
}

// GetToken 从 context 获取会话 token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}
