package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/config"
	"github.com/gosocial-app/backend/controllers"
	"github.com/gosocial-app/backend/middleware"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, tokens *auth.TokenService, logger *zap.Logger) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, tokens)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)

	authRequired := middleware.AuthRequired(tokens, db)

	r.POST("/auth/login", authController.Login)

	users := r.Group("/users")
	users.POST("", userController.Register)
	users.GET("", userController.ListUsers)
	users.GET("/:id", userController.GetUser)
	users.PUT("/:id", authRequired, userController.UpdateUser)

	posts := r.Group("/posts")
	posts.Use(authRequired)
	posts.GET("", postController.ListPosts)
	posts.POST("", postController.CreatePost)
	posts.GET("/:id", postController.GetPost)
	posts.PUT("/:id", postController.UpdatePost)
	posts.DELETE("/:id", postController.DeletePost)
	posts.POST("/:id/like", postController.ToggleLike)

	comments := r.Group("/comments")
	comments.Use(authRequired)
	comments.GET("/post/:post_id", commentController.ListForPost)
	comments.POST("", commentController.CreateComment)
	comments.PUT("/:id", commentController.UpdateComment)
	comments.DELETE("/:id", commentController.DeleteComment)

	return r
}
