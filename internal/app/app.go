// Package app 组装配置、存储、事件与 HTTP 路由
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/blog_server/config"
	"github.com/qs3c/blog_server/internal/api"
	"github.com/qs3c/blog_server/internal/api/handler"
	"github.com/qs3c/blog_server/internal/database"
	"github.com/qs3c/blog_server/internal/pkg/logger"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/pkg/ws"
	"github.com/qs3c/blog_server/internal/repository"
	"github.com/qs3c/blog_server/internal/service"
	"github.com/qs3c/blog_server/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg       *config.Config
	log       *logrus.Logger
	db        *gorm.DB
	ownsDB    bool
	redis     *redis.Client
	ownsRedis bool
	hub       *ws.Hub
	relay     *worker.Relay
	engine    *gin.Engine
}

type Option func(*App)

// WithDB 使用已打开的数据库，Close 时不关闭
func WithDB(db *gorm.DB) Option {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger 替换默认日志
func WithLogger(log *logrus.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithRedis 使用已有的 Redis 客户端，忽略 redis.enabled
func WithRedis(client *redis.Client) Option {
	return func(a *App) {
		a.redis = client
	}
}

// New 初始化应用
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.New(cfg.Log)
	}
	if cfg.Features.Debug {
		a.log.SetLevel(logrus.DebugLevel)
	}

	if a.db == nil {
		db, err := database.Open(cfg, a.log)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.ownsDB = true
	}
	if err := database.AutoMigrate(a.db); err != nil {
		a.Close()
		return nil, err
	}
	a.log.WithField("driver", cfg.Database.Driver).Info("database ready")

	a.hub = ws.NewHub(a.log)

	publisher, err := a.setupEvents(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	events := service.NewNotifier(publisher, a.log)

	// Repository
	userRepo := repository.NewUserRepository(a.db)
	roleRepo := repository.NewRoleRepository(a.db)
	postRepo := repository.NewPostRepository(a.db)
	commentRepo := repository.NewCommentRepository(a.db)
	ratingRepo := repository.NewRatingRepository(a.db)

	// Service
	userService := service.NewUserService(userRepo, roleRepo, events)
	roleService := service.NewRoleService(roleRepo, events)
	postService := service.NewPostService(postRepo, events)
	commentService := service.NewCommentService(commentRepo, events)
	ratingService := service.NewRatingService(ratingRepo, events)

	router := api.NewRouter(
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		handler.NewPostHandler(postService),
		handler.NewCommentHandler(commentService),
		handler.NewRatingHandler(ratingService),
		handler.NewHealthHandler(a.db),
		handler.NewWebSocketHandler(a.hub, a.log),
		cfg,
		a.log,
	)
	a.engine = router.Setup()

	return a, nil
}

// setupEvents 返回资源事件的发布者，未开启事件时为 nil
func (a *App) setupEvents(ctx context.Context) (service.EventPublisher, error) {
	if !a.cfg.Features.Events {
		return nil, nil
	}

	if a.redis == nil && a.cfg.Redis.Enabled {
		client, err := database.NewRedis(ctx, &a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.ownsRedis = true
	}
	if a.redis == nil {
		// 单实例部署，直接推送给本机连接
		return a.hub, nil
	}

	a.relay = worker.NewRelay(pubsub.NewSubscriber(a.redis, a.cfg.Redis.Channel), a.hub, a.log)
	a.log.WithField("channel", a.cfg.Redis.Channel).Info("redis event channel enabled")
	return pubsub.NewPublisher(a.redis, a.cfg.Redis.Channel), nil
}

// Handler 返回 HTTP 处理器
func (a *App) Handler() http.Handler {
	return a.engine
}

// DB 返回数据库连接
func (a *App) DB() *gorm.DB {
	return a.db
}

// StartWorkers 启动后台事件转发，随 ctx 退出
func (a *App) StartWorkers(ctx context.Context) {
	if a.relay != nil {
		go a.relay.Run(ctx)
	}
}

// Run 启动 HTTP 服务，ctx 取消后优雅关闭
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.StartWorkers(ctx)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// Close 释放连接
func (a *App) Close() {
	if a.ownsRedis && a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close redis")
		}
	}
	if a.ownsDB && a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.WithError(err).Warn("failed to close database")
			}
		}
	}
}
