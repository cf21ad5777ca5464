package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusDisabled     = "disabled"
)

// Pinger 可探活的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc 适配函数为 Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Checker 健康检查器，nil 依赖视为未启用
type Checker struct {
	components map[string]Pinger
	timeout    time.Duration
}

// NewChecker 创建健康检查器
func NewChecker(components map[string]Pinger) *Checker {
	return &Checker{
		components: components,
		timeout:    2 * time.Second,
	}
}

// Check 执行健康检查
func (h *Checker) Check(ctx context.Context) map[string]string {
	status := make(map[string]string, len(h.components))
	for name, p := range h.components {
		if p == nil {
			status[name] = statusDisabled
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := p.Ping(pingCtx)
		cancel()

		if err == nil {
			status[name] = statusConnected
		} else {
			status[name] = statusDisconnected
		}
	}
	return status
}

// IsHealthy 所有启用的依赖均可用
func (h *Checker) IsHealthy(ctx context.Context) bool {
	return healthy(h.Check(ctx))
}

func healthy(status map[string]string) bool {
	for _, s := range status {
		if s == statusDisconnected {
			return false
		}
	}
	return true
}

// Health GET /health
func (h *Checker) Health(c *gin.Context) {
	status := h.Check(c.Request.Context())
	code := http.StatusOK
	if !healthy(status) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Ready GET /ready
func (h *Checker) Ready(c *gin.Context) {
	if h.IsHealthy(c.Request.Context()) {
		c.String(http.StatusOK, "OK")
		return
	}
	c.String(http.StatusServiceUnavailable, "Not Ready")
}
