package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "nextbase/internal/app"
	"nextbase/internal/bootstrap"
	"nextbase/internal/cache"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/handler"
	"nextbase/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), cors.New(corsConfig(cfg.CORS.AllowOrigin)))
	router.MaxMultipartMemory = 16 << 20

	userRepo := repository.NewUserRepository(app.MySQL)
	categoryRepo := repository.NewCategoryRepository(app.MySQL)
	productRepo := repository.NewProductRepository(app.MySQL)
	auditRepo := repository.NewAuditRepository(app.MySQL)

	userService := appsvc.NewUserService(userRepo, app.Publisher)
	categoryService := appsvc.NewCategoryService(categoryRepo, app.Publisher)
	productService := appsvc.NewProductService(productRepo, categoryRepo, app.Publisher)
	auditService := appsvc.NewAuditService(auditRepo)

	systemHandler := handler.NewSystemHandler(app)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	auditHandler := handler.NewAuditHandler(auditService)
	fileHandler := handler.NewFileHandler(app.Store, cfg.Upload.MaxPreviewBytes)

	api := router.Group("/api")
	if cfg.RateLimit.Enabled && app.Redis != nil {
		limiter := cache.NewRateLimiter(app.Redis, cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
		api.Use(middleware.RateLimit(limiter))
	}

	api.GET("", systemHandler.Index)
	api.GET("/time", systemHandler.Time)
	api.GET("/health", systemHandler.Health)

	users := api.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	api.POST("/upload/single", fileHandler.UploadSingle)
	api.POST("/upload/multiple", fileHandler.UploadMultiple)
	api.GET("/files", fileHandler.List)
	api.GET("/files/:filename", fileHandler.Download)
	api.GET("/files/:filename/preview", fileHandler.Preview)

	api.GET("/audit-logs", auditHandler.List)

	return router
}

func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = []string{origin}
	return cfg
}
