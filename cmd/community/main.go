package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"sudooom.community/internal/config"
	"sudooom.community/internal/events"
	"sudooom.community/internal/handler"
	"sudooom.community/internal/health"
	"sudooom.community/internal/metrics"
	"sudooom.community/internal/migration"
	"sudooom.community/internal/repository"
	"sudooom.community/internal/router"
	"sudooom.community/internal/service"
	"sudooom.community/internal/session"
)

func main() {
	// 加载配置
	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	// 创建上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 数据库迁移
	if cfg.Migrate.Enabled {
		if err := migration.Up(cfg.Database.DSN()); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("Database migrations applied")
	}

	// 连接数据库
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)

	// 会话存储
	var (
		sessions    session.Store
		redisPinger health.Pinger
	)
	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		redisClient := connectRedis(cfg.Redis)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr())
		sessions = session.NewRedisStore(redisClient, cfg.Session.TTL)
		redisPinger = health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	case config.SessionDriverMemory:
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	default:
		logger.Error("Unknown session driver", "driver", cfg.Session.Driver)
		os.Exit(1)
	}
	logger.Info("Session store ready", "driver", cfg.Session.Driver, "ttl", cfg.Session.TTL)

	m := metrics.New()

	// 聊天事件发布（可选）
	var (
		publisher  service.MessagePublisher
		natsPinger health.Pinger
	)
	if cfg.NATS.URL != "" {
		chatEvents, err := events.Connect(cfg.NATS)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer chatEvents.Close()
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)

		publisher = chatEvents.OnPublish(m.ObserveChatPublish)
		natsPinger = chatEvents
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	itemRepo := repository.NewMarketplaceRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, sessions)
	postService := service.NewPostService(postRepo)
	marketplaceService := service.NewMarketplaceService(itemRepo)
	chatService := service.NewChatService(chatRepo, publisher)

	// 初始化 Handler
	handlers := &router.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieOptions{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		}),
		Post:        handler.NewPostHandler(postService),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService),
		Chat:        handler.NewChatHandler(chatService),
		Health: health.NewChecker(map[string]health.Pinger{
			"database": db,
			"redis":    redisPinger,
			"nats":     natsPinger,
		}),
		Metrics: m,
	}

	// 设置路由
	r := router.SetupRouter(cfg, sessions, handlers)

	// 启动服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Community server started", "addr", srv.Addr, "mode", cfg.App.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	cancel()
	logger.Info("Server stopped")
}

// parseLevel 解析日志级别，无法识别时使用 info
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// connectRedis 连接 Redis
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
