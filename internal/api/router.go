package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qs3c/blog_server/config"
	"github.com/qs3c/blog_server/internal/api/handler"
	"github.com/qs3c/blog_server/internal/api/middleware"
	"github.com/qs3c/blog_server/internal/pkg/metrics"
)

type Router struct {
	userHandler      *handler.UserHandler
	roleHandler      *handler.RoleHandler
	postHandler      *handler.PostHandler
	commentHandler   *handler.CommentHandler
	ratingHandler    *handler.RatingHandler
	healthHandler    *handler.HealthHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
	log              logrus.FieldLogger
}

func NewRouter(
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	ratingHandler *handler.RatingHandler,
	healthHandler *handler.HealthHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
	log logrus.FieldLogger,
) *Router {
	return &Router{
		userHandler:      userHandler,
		roleHandler:      roleHandler,
		postHandler:      postHandler,
		commentHandler:   commentHandler,
		ratingHandler:    ratingHandler,
		healthHandler:    healthHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
		log:              log,
	}
}

func (r *Router) Setup() *gin.Engine {
	mode := r.cfg.Server.Mode
	if r.cfg.Features.Debug {
		mode = gin.DebugMode
	}
	switch mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(r.log))
	if r.cfg.Features.Metrics {
		engine.Use(metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", r.healthHandler.Check)
	engine.GET("/ws", r.websocketHandler.Handle)

	// 用户
	user := engine.Group("/user")
	{
		user.GET("", r.userHandler.List)
		user.POST("", r.userHandler.Create)
		user.GET("/:id", r.userHandler.Get)
		user.PATCH("/:id", r.userHandler.Update)
		user.PUT("/:id", r.userHandler.Update)
		user.DELETE("/:id", r.userHandler.Delete)
	}

	// 角色
	role := engine.Group("/role")
	{
		role.GET("", r.roleHandler.List)
		role.POST("", r.roleHandler.Create)
		role.GET("/:id", r.roleHandler.Get)
		role.PATCH("/:id", r.roleHandler.Update)
		role.PUT("/:id", r.roleHandler.Update)
		role.DELETE("/:id", r.roleHandler.Delete)
	}

	// 文章，:id 也可以是 slug
	post := engine.Group("/post")
	{
		post.GET("", r.postHandler.List)
		post.POST("", r.postHandler.Create)
		post.GET("/:id", r.postHandler.Get)
		post.PATCH("/:id", r.postHandler.Update)
		post.PUT("/:id", r.postHandler.Update)
		post.DELETE("/:id", r.postHandler.Delete)
	}

	// 评论
	comment := engine.Group("/comment")
	{
		comment.GET("", r.commentHandler.List)
		comment.POST("", r.commentHandler.Create)
		comment.GET("/:id", r.commentHandler.Get)
		comment.PATCH("/:id", r.commentHandler.Update)
		comment.PUT("/:id", r.commentHandler.Update)
		comment.DELETE("/:id", r.commentHandler.Delete)
	}

	// 评分
	rating := engine.Group("/user_rating")
	{
		rating.GET("", r.ratingHandler.List)
		rating.POST("", r.ratingHandler.Create)
		rating.GET("/:id", r.ratingHandler.Get)
		rating.PATCH("/:id", r.ratingHandler.Update)
		rating.PUT("/:id", r.ratingHandler.Update)
		rating.DELETE("/:id", r.ratingHandler.Delete)
	}

	return engine
}
