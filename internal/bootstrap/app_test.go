package bootstrap

import (
	"io"
	"os"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CcydtN/Touchpad-Emulator/internal/hub"
	memorystate "github.com/CcydtN/Touchpad-Emulator/internal/infra/state/memory"
	"github.com/CcydtN/Touchpad-Emulator/internal/mirror"
	"github.com/CcydtN/Touchpad-Emulator/internal/service"
)

var configEnv = []string{
	"SERVER_PORT", "APP_ENV", "LOG_LEVEL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"REDIS_KEY_PREFIX", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "SURFACE_WIDTH",
	"SURFACE_HEIGHT", "ASSETS_DIR", "CORS_ALLOWED_ORIGIN",
}

// clearEnv 删除所有配置变量，t.Setenv 会在测试结束时恢复原值
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "tp:", cfg.KeyPrefix)
	assert.Equal(t, 600, cfg.RateLimitMax)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 800, cfg.SurfaceWidth)
	assert.Equal(t, 600, cfg.SurfaceHeight)
	assert.Equal(t, "web/dist", cfg.AssetsDir)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RATE_LIMIT_WINDOW", "250ms")
	t.Setenv("SURFACE_WIDTH", "320")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitWindow)
	assert.Equal(t, 320, cfg.SurfaceWidth)
	assert.Equal(t, logrus.DebugLevel, NewLogger(cfg).GetLevel())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REDIS_DB", "zero"},
		{"RATE_LIMIT_MAX", "0"},
		{"RATE_LIMIT_WINDOW", "soon"},
		{"SURFACE_WIDTH", "1"},
		{"SURFACE_HEIGHT", "abc"},
		{"LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()

			assert.Error(t, err)
		})
	}
}

func TestNewLogger_ProductionUsesJSON(t *testing.T) {
	log := NewLogger(&Config{AppEnv: "production", LogLevel: "warn"})

	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func newTestRouter(t *testing.T, redisClient *redis.Client, rateLimitMax int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	logrus.SetOutput(io.Discard)

	cfg := &Config{
		KeyPrefix:         "test:",
		RateLimitMax:      rateLimitMax,
		RateLimitWindow:   time.Minute,
		SurfaceWidth:      64,
		SurfaceHeight:     48,
		AssetsDir:         t.TempDir(),
		CORSAllowedOrigin: "*",
	}
	surface, err := mirror.NewSurface(cfg.SurfaceWidth, cfg.SurfaceHeight)
	require.NoError(t, err)
	t.Cleanup(func() { _ = surface.Close() })
	h := hub.NewHub(nil)
	touchpad := service.NewTouchpadService(surface, memorystate.NewMemoryEventRepository(), h, log)
	return NewRouter(cfg, log, touchpad, h, redisClient)
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(t, nil, 1)

	tests := []struct {
		method, path, body string
		code               int
	}{
		{http.MethodGet, "/ping", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/touchstart", `{"touches":[{"identifier":0,"x":1,"y":1}]}`, http.StatusOK},
		{http.MethodPost, "/touchmove", `{"touches":[{"identifier":0,"x":2,"y":1}]}`, http.StatusOK},
		{http.MethodGet, "/api/contacts", "", http.StatusOK},
		{http.MethodGet, "/api/stats", "", http.StatusOK},
		{http.MethodGet, "/api/hid/descriptor", "", http.StatusOK},
		{http.MethodGet, "/surface.png", "", http.StatusOK},
		{http.MethodDelete, "/surface", "", http.StatusNoContent},
		{http.MethodGet, "/main.wasm", "", http.StatusNotFound},
		{http.MethodOptions, "/touchend", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewRouter_RateLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	router := newTestRouter(t, client, 1)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/touchcancel", strings.NewReader(`{"touches":[]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	// 查询接口不受限流影响
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
