package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	up   = PingFunc(func(context.Context) error { return nil })
	down = PingFunc(func(context.Context) error { return errors.New("refused") })
)

func serve(t *testing.T, checker *Checker, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", checker.Health)
	r.GET("/ready", checker.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth_AllConnected(t *testing.T) {
	checker := NewChecker(map[string]Pinger{"database": up, "redis": up, "nats": nil})

	w := serve(t, checker, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "connected", status["database"])
	assert.Equal(t, "disabled", status["nats"])

	assert.Equal(t, http.StatusOK, serve(t, checker, "/ready").Code)
}

func TestHealth_Degraded(t *testing.T) {
	checker := NewChecker(map[string]Pinger{"database": up, "redis": down})

	w := serve(t, checker, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disconnected"`)

	w = serve(t, checker, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Not Ready", w.Body.String())
}
