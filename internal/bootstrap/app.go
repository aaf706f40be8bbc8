package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// --- 导入内部包 ---
	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
	httpHandler "github.com/CcydtN/Touchpad-Emulator/internal/handler/http"
	wsHandler "github.com/CcydtN/Touchpad-Emulator/internal/handler/websocket"
	"github.com/CcydtN/Touchpad-Emulator/internal/hub"
	"github.com/CcydtN/Touchpad-Emulator/internal/infra/setup"
	memorystate "github.com/CcydtN/Touchpad-Emulator/internal/infra/state/memory"
	redisstate "github.com/CcydtN/Touchpad-Emulator/internal/infra/state/redis"
	"github.com/CcydtN/Touchpad-Emulator/internal/middleware"
	"github.com/CcydtN/Touchpad-Emulator/internal/mirror"
	"github.com/CcydtN/Touchpad-Emulator/internal/repository"
	"github.com/CcydtN/Touchpad-Emulator/internal/service"
	"github.com/CcydtN/Touchpad-Emulator/web"
)

// Config 结构体用于存储从环境变量或 .env 文件加载的配置
type Config struct {
	ServerPort        string        `env:"SERVER_PORT"         envDefault:"3000"`
	AppEnv            string        `env:"APP_ENV"             envDefault:"development"` // development / production
	LogLevel          string        `env:"LOG_LEVEL"           envDefault:"info"`
	RedisAddr         string        `env:"REDIS_ADDR"` // 为空时使用内存仓库且不限流
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB"            envDefault:"0"`
	KeyPrefix         string        `env:"REDIS_KEY_PREFIX"    envDefault:"tp:"`
	RateLimitMax      int           `env:"RATE_LIMIT_MAX"      envDefault:"600"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"1s"`
	SurfaceWidth      int           `env:"SURFACE_WIDTH"       envDefault:"800"`
	SurfaceHeight     int           `env:"SURFACE_HEIGHT"      envDefault:"600"`
	AssetsDir         string        `env:"ASSETS_DIR"          envDefault:"web/dist"` // main.wasm 与 wasm_exec.js 所在目录
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)，已有的环境变量不会被覆盖
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// --- 必要检查 ---
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.SurfaceWidth < 2 || cfg.SurfaceHeight < 2 {
		return nil, fmt.Errorf("surface must be at least 2x2, got %dx%d", cfg.SurfaceWidth, cfg.SurfaceHeight)
	}
	return cfg, nil
}

// NewLogger 按配置创建 logrus Logger
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	return log
}

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	RedisClient *redis.Client // 未配置 REDIS_ADDR 时为 nil
	Surface     *mirror.Surface
	Touchpad    *service.TouchpadService
	Hub         *hub.Hub
	HttpServer  *http.Server
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s, Format: %T)", log.GetLevel().String(), log.Formatter)
	log.Info("Configuration loaded successfully")

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	var redisClient *redis.Client
	var events repository.EventRepository
	if cfg.RedisAddr != "" {
		redisClient, err = setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		events = redisstate.NewRedisEventRepository(redisClient, cfg.KeyPrefix)
		log.Info("Redis event repository initialized")
	} else {
		events = memorystate.NewMemoryEventRepository()
		log.Warn("REDIS_ADDR not set, using in-memory event repository without rate limiting")
	}

	surface, err := mirror.NewSurface(cfg.SurfaceWidth, cfg.SurfaceHeight)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("failed to create mirror surface: %w", err)
	}
	log.Infof("Mirror surface initialized (%dx%d)", cfg.SurfaceWidth, cfg.SurfaceHeight)

	// 4. 初始化 Service 与 Hub。Hub 的快照回调需要 Service，Service 的广播需要 Hub。
	var touchpad *service.TouchpadService
	hubInstance := hub.NewHub(func() interface{} {
		w, h := touchpad.SurfaceSize()
		return domain.FeedSnapshot{Type: domain.FeedTypeSnapshot, Touches: touchpad.ActiveContacts(), Width: w, Height: h}
	})
	touchpad = service.NewTouchpadService(surface, events, hubInstance, log)
	log.Info("Services initialized")

	// 5. 初始化 Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := NewRouter(cfg, log, touchpad, hubInstance, redisClient)

	app := &App{
		Config:      cfg,
		Log:         log,
		RedisClient: redisClient,
		Surface:     surface,
		Touchpad:    touchpad,
		Hub:         hubInstance,
		HttpServer: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
	}
	log.Info("Application initialized successfully")
	return app, nil
}

// NewRouter 组装中间件与路由。redisClient 为 nil 时不启用限流。
func NewRouter(cfg *Config, log *logrus.Logger, touchpad *service.TouchpadService, feed *hub.Hub, redisClient *redis.Client) *gin.Engine {
	touchHandler := httpHandler.NewTouchHandler(touchpad)
	pageHandler := httpHandler.NewPageHandler(cfg.AssetsDir, cfg.SurfaceWidth, cfg.SurfaceHeight)
	feedHandler := wsHandler.NewFeedHandler(feed, cfg.CORSAllowedOrigin)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.CORSAllowedOrigin))
	router.SetHTMLTemplate(web.IndexTemplate)

	// --- 页面 ---
	router.GET("/", pageHandler.Index)
	router.GET("/main.wasm", pageHandler.Asset("main.wasm"))
	router.GET("/wasm_exec.js", pageHandler.Asset("wasm_exec.js"))

	// --- 触点上报 ---
	touchRoutes := router.Group("/")
	if redisClient != nil {
		touchRoutes.Use(middleware.RateLimit(redisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	touchRoutes.POST("/:event", touchHandler.HandleTouch)

	// --- 镜像与查询 ---
	router.GET("/surface.png", touchHandler.SurfacePNG)
	router.DELETE("/surface", touchHandler.ResetSurface)
	api := router.Group("/api")
	{
		api.GET("/contacts", touchHandler.Contacts)
		api.GET("/stats", touchHandler.Stats)
		api.GET("/hid/descriptor", touchHandler.Descriptor)
	}
	router.GET("/ws", feedHandler.HandleConnection)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	log.Info("Router setup complete")
	return router
}

// Start 启动 Hub 与 HTTP 服务器
func (a *App) Start() {
	a.Log.Info("Starting application components...")

	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止 HTTP 服务器，不再接收新的触点
	a.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止 Hub，断开所有观察者
	if a.Hub != nil {
		a.Hub.Stop()
	}

	// 3. 关闭 Redis 连接
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		} else {
			a.Log.Info("Redis connection closed.")
		}
	}

	// 4. 释放镜像画布
	if a.Surface != nil {
		if err := a.Surface.Close(); err != nil {
			a.Log.Errorf("Error closing mirror surface: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			// touchmove 每帧一次，成功请求只记 Debug
			entry.Debug("Request handled")
		}
	}
}

// CORSMiddleware 设置跨域响应头并直接应答预检请求
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
