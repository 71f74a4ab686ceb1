package router

import (
	"github.com/KatanaSword/portfolio/internal/config"
	"github.com/KatanaSword/portfolio/internal/handler"
	"github.com/KatanaSword/portfolio/internal/mail"
	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, middleware and API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, store storage.Store, mailer mail.Mailer) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.Server.CORSOrigin != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{cfg.Server.CORSOrigin}
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization")
		r.Use(cors.New(corsCfg))
	}

	// static assets
	r.Static("/public", "./public")

	// ====== API ======
	api := r.Group("/api/v1")

	authRequired := middleware.AuthMiddleware(cfg.JWT.AccessSecret, db)

	authHandler := handler.NewAuthHandler(db, cfg.JWT, cfg.Security, mailer)
	profileHandler := handler.NewProfileHandler(db, cfg.Security, store, cfg.Storage.Folder, cfg.App.UploadDir)
	projectHandler := handler.NewProjectHandler(db, store, cfg.Storage.Folder, cfg.App.UploadDir, cfg.App.PageSize)
	exportHandler := handler.NewExportHandler(db)

	// 用户：无需鉴权的接口
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.RefreshToken)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.POST("/reset-password/:resetToken", authHandler.ResetPassword)

	// 用户：需要登录的接口
	usersAuth := users.Group("")
	usersAuth.Use(authRequired)
	usersAuth.POST("/logout", authHandler.Logout)
	usersAuth.GET("/current-user", profileHandler.GetCurrentUser)
	usersAuth.PATCH("/change-password", profileHandler.ChangePassword)
	usersAuth.PATCH("/update-account", profileHandler.UpdateAccount)
	usersAuth.PATCH("/update-avatar", profileHandler.UpdateAvatar)

	// 项目：列表和详情公开，写操作需要登录
	projects := api.Group("/projects")
	projects.GET("", projectHandler.ListProjects)
	projects.GET("/:projectId", projectHandler.GetProject)

	projectsAuth := projects.Group("")
	projectsAuth.Use(authRequired)
	projectsAuth.POST("", projectHandler.CreateProject)
	projectsAuth.PATCH("/:projectId", projectHandler.UpdateProject)
	projectsAuth.PATCH("/update-images/:projectId", projectHandler.UpdateImages)
	projectsAuth.DELETE("/:projectId", projectHandler.DeleteProject)
	projectsAuth.GET("/export/xlsx", exportHandler.ExportProjectsXLSX)

	return r
}
