package routes

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/controllers"
	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/utils"
	"github.com/ewhacare/accessdesk/web"
)

// Services are the domain services behind the HTTP layer.
type Services struct {
	Posts    controllers.PostService
	Featured controllers.FeaturedService
	Files    controllers.FileStore
}

// maxPostBodyBytes caps JSON post payloads. Inline base64 images inflate the
// upload ceiling by a third.
func maxPostBodyBytes(cfg config.AppConfig) int64 {
	return cfg.UploadMaxTotalBytes()*4/3 + 1<<20
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, svc Services) (*gin.Engine, error) {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestMetrics())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = 32 << 20

	r.StaticFS("/static", web.Static())
	r.Static("/uploads", filepath.Join(cfg.PublicDir, "uploads"))
	r.Static("/source", filepath.Join(cfg.PublicDir, "source"))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(cfg)
	postController := controllers.NewPostController(svc.Posts, maxPostBodyBytes(cfg))
	featuredController := controllers.NewFeaturedController(svc.Featured)
	uploadController := controllers.NewUploadController(svc.Files, cfg.UploadMaxTotalBytes())
	attachmentController := controllers.NewAttachmentController(svc.Posts, cfg.PublicDir)
	configController := controllers.NewConfigController(cfg)
	pageController := controllers.NewPageController(svc.Posts, svc.Featured, cfg)
	adminPages := controllers.NewAdminPageController(authController, svc.Posts, svc.Featured, svc.Files, cfg)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute), middleware.OptionalAuth())

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	api.GET("/site", configController.GetSite)
	api.GET("/posts", postController.ListPosts)
	api.GET("/featured", featuredController.GetFeatured)
	api.GET("/featured/posts", featuredController.GetFeaturedPosts)
	api.GET("/attachments/:id", attachmentController.Download)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/posts", postController.SavePost)
	protected.PATCH("/posts/status", postController.ToggleStatus)
	protected.DELETE("/posts", postController.DeletePost)
	protected.POST("/featured", featuredController.SetFeatured)
	protected.POST("/upload", uploadController.Upload)
	protected.DELETE("/upload", uploadController.DeleteUpload)

	pages := r.Group("")
	pages.Use(middleware.OptionalAuth())
	pages.GET("/", pageController.Home)
	pages.GET("/blog", pageController.Blog)
	pages.GET("/blog/:id", pageController.Post)
	pages.POST("/a11y", pageController.SetA11y)

	pages.GET("/admin", adminPages.Index)
	pages.GET("/admin/login", adminPages.LoginPage)
	pages.POST("/admin/login", middleware.RateLimitMiddleware(cfg.RateLimitPerMinute), adminPages.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminPageRequired())
	admin.POST("/logout", adminPages.Logout)
	admin.GET("/posts", adminPages.Posts)
	admin.POST("/posts/toggle", adminPages.Toggle)
	admin.POST("/posts/delete", adminPages.Delete)
	admin.GET("/posts/write", adminPages.Write)
	admin.POST("/posts/write", adminPages.Save)
	admin.GET("/featured", adminPages.Featured)
	admin.POST("/featured", adminPages.SaveFeatured)

	r.NoRoute(middleware.OptionalAuth(), pageController.NotFound)

	return r, nil
}
