package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sudooom.community/internal/middleware"
	"sudooom.community/internal/service"
	"sudooom.community/pkg/response"
)

// CookieOptions 会话 cookie 设置
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *service.AuthService
	cookie      CookieOptions
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register 用户注册
// @Summary      用户注册
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.RegisterRequest true "注册信息"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, "User registered successfully", nil)
}

// Login 用户登录
// @Summary      用户登录
// @Description  登录成功后写入会话 cookie，同时返回 token 供 Bearer 使用
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.LoginRequest true "登录信息"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, middleware.GetToken(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setCookie(c, result.Token, int(h.cookie.TTL.Seconds()))
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user_id": result.UserID,
		"token":   result.Token,
	})
}

// Logout 用户登出，总是成功
// @Summary      用户登出
// @Tags         认证
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		slog.Warn("Logout failed to clear session", "error", err)
	}

	h.setCookie(c, "", -1)
	response.OK(c, "Logged out successfully")
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
