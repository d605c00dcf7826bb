package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inkwell-backend/internal/config"
	"inkwell-backend/internal/handlers"
	"inkwell-backend/internal/middleware"
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/repository"
	"inkwell-backend/internal/seed"
	"inkwell-backend/internal/service"
	"inkwell-backend/pkg/cache"
	"inkwell-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User     repository.UserRepository
	Category repository.CategoryRepository
	Post     repository.PostRepository
	Tag      repository.TagRepository
	Comment  repository.CommentRepository
	Search   repository.SearchRepository
}

type serviceContainer struct {
	Auth     *service.AuthService
	Category *service.CategoryService
	Post     *service.PostService
	Comment  *service.CommentService
	Search   *service.SearchService
}

type handlerContainer struct {
	Auth     *handlers.AuthHandler
	Category *handlers.CategoryHandler
	Post     *handlers.PostHandler
	Comment  *handlers.CommentHandler
	Search   *handlers.SearchHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	app.initCache()
	app.initRepositories()
	app.initServices()

	seed.EnsureDefaultCategory(app.services.Category)
	if cfg.SeedDemoData {
		seed.SeedDemoData(app.services.Auth, app.services.Category, app.services.Post, app.services.Comment)
	}

	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published) WHERE published = true",
		"CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_posts_view_count ON posts(view_count DESC) WHERE published = true",
		"CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)",
		"CREATE INDEX IF NOT EXISTS idx_comments_parent_id ON comments(parent_id) WHERE parent_id IS NOT NULL",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		logger.Error(err, "Cache unavailable, continuing without it", map[string]interface{}{
			"addr": a.cfg.RedisURL,
		})
		c = nil
	}
	a.cache = c
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:     repository.NewUserRepository(a.db),
		Category: repository.NewCategoryRepository(a.db),
		Post:     repository.NewPostRepository(a.db),
		Tag:      repository.NewTagRepository(a.db),
		Comment:  repository.NewCommentRepository(a.db),
		Search:   repository.NewSearchRepository(a.db),
	}
}

func (a *Application) initServices() {
	a.services = serviceContainer{
		Auth:     service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		Category: service.NewCategoryService(a.repositories.Category, a.cache),
		Post:     service.NewPostService(a.repositories.Post, a.repositories.Tag, a.repositories.Category, a.cache),
		Comment:  service.NewCommentService(a.repositories.Comment, a.repositories.Post),
		Search:   service.NewSearchService(a.repositories.Search, a.cfg.SearchMinLength, a.cfg.SearchDefaultLimit),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:     handlers.NewAuthHandler(a.services.Auth),
		Category: handlers.NewCategoryHandler(a.services.Category),
		Post:     handlers.NewPostHandler(a.services.Post),
		Comment:  handlers.NewCommentHandler(a.services.Comment),
		Search:   handlers.NewSearchHandler(a.services.Search),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	paginated := middleware.PaginationMiddleware(a.cfg.DefaultPageSize, a.cfg.MaxPageSize)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.POST("/register", a.handlers.Auth.Register)
			public.POST("/login", a.handlers.Auth.Login)
			public.POST("/refresh", a.handlers.Auth.Refresh)

			public.GET("/posts", paginated, a.handlers.Post.GetAll)
			public.GET("/posts/featured", a.handlers.Post.GetFeatured)
			public.GET("/posts/recent", a.handlers.Post.GetRecent)
			public.GET("/posts/popular", a.handlers.Post.GetPopular)
			public.GET("/posts/:id", a.handlers.Post.GetByID)
			public.GET("/posts/:id/related", a.handlers.Post.GetRelated)
			public.GET("/posts/:id/comments", a.handlers.Comment.GetByPost)
			public.GET("/posts/slug/:slug", a.handlers.Post.GetBySlug)

			public.GET("/categories", a.handlers.Category.GetAll)
			public.GET("/categories/:id", a.handlers.Category.GetByID)
			public.GET("/categories/slug/:slug", a.handlers.Category.GetBySlug)

			public.GET("/tags", a.handlers.Post.GetTags)

			public.GET("/search", a.handlers.Search.Search)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.GET("/profile", a.handlers.Auth.Me)
			protected.PUT("/profile", a.handlers.Auth.UpdateProfile)
			protected.PUT("/profile/password", a.handlers.Auth.ChangePassword)

			protected.POST("/posts", a.handlers.Post.Create)
			protected.PUT("/posts/:id", a.handlers.Post.Update)
			protected.DELETE("/posts/:id", a.handlers.Post.Delete)

			protected.POST("/posts/:id/comments", a.handlers.Comment.Create)
			protected.PUT("/comments/:id", a.handlers.Comment.Update)
			protected.DELETE("/comments/:id", a.handlers.Comment.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/posts", paginated, a.handlers.Post.GetAllAdmin)

			admin.POST("/categories", a.handlers.Category.Create)
			admin.PUT("/categories/:id", a.handlers.Category.Update)
			admin.DELETE("/categories/:id", a.handlers.Category.Delete)

			admin.DELETE("/tags/:id", a.handlers.Post.DeleteTag)

			admin.GET("/users", a.handlers.Auth.GetUsers)
			admin.GET("/users/:id", a.handlers.Auth.GetUser)
			admin.DELETE("/users/:id", a.handlers.Auth.DeleteUser)
			admin.PUT("/users/:id/status", a.handlers.Auth.SetUserActive)

			admin.GET("/comments", a.handlers.Comment.GetAll)
			admin.PUT("/comments/:id/approve", a.handlers.Comment.Approve)
			admin.PUT("/comments/:id/reject", a.handlers.Comment.Reject)
			admin.PUT("/comments/:id/flag", a.handlers.Comment.Flag)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
