package app

import (
	"clever_backend/internal/config"
	"clever_backend/internal/controller"
	"clever_backend/internal/repository"
	"clever_backend/internal/service"
	"clever_backend/internal/util"
	"clever_backend/pkg/configwatcher"
	"clever_backend/pkg/database"
	"clever_backend/pkg/logger"
	"clever_backend/pkg/monitoring"
	"clever_backend/pkg/security"
	"clever_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	group     *repository.GroupRepository
	test      *repository.TestRepository
	level     *repository.LevelRepository
	result    *repository.ResultRepository
	catalog   *repository.CatalogCacheRepository
	blocklist *repository.TokenBlocklistRepository
}

type services struct {
	settings *service.QuizSettings
	storage  *service.StorageService
	auth     *service.AuthService
	group    *service.GroupService
	catalog  *service.CatalogService
	test     *service.TestService
	level    *service.LevelService
	attempt  *service.AttemptService
}

type controllers struct {
	auth    *controller.AuthController
	group   *controller.GroupController
	test    *controller.TestController
	attempt *controller.AttemptController
	level   *controller.LevelController
	health  *controller.HealthController
}

// RegisterConfigCallback runs callback with every reloaded configuration.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		group:     repository.NewGroupRepository(db),
		test:      repository.NewTestRepository(db),
		level:     repository.NewLevelRepository(db),
		result:    repository.NewResultRepository(db),
		catalog:   repository.NewCatalogCacheRepository(rdb, time.Duration(cfg.Redis.CatalogTTLMinutes)*time.Minute),
		blocklist: repository.NewTokenBlocklistRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.settings = service.NewQuizSettings(cfg.Quiz)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.group, repos.blocklist, cfg)
	s.group = service.NewGroupService(repos.group)
	s.catalog = service.NewCatalogService(repos.test, repos.catalog)
	s.test = service.NewTestService(repos.test, repos.group, repos.level, repos.result, repos.user, s.catalog, s.storage, s.settings)
	s.level = service.NewLevelService(repos.test, repos.level)
	s.attempt = service.NewAttemptService(repos.test, repos.level, repos.result, repos.user, s.catalog, s.settings)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		group:   controller.NewGroupController(s.group),
		test:    controller.NewTestController(s.test),
		attempt: controller.NewAttemptController(s.attempt),
		level:   controller.NewLevelController(s.level),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 热更新：及格线、作者模式与日志级别
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.settings.Apply(newCfg.Quiz)
		logger.SetMode(newCfg.Server.Mode)
	})

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	configFile := filepath.Join("configs", "config.yaml")
	err := configwatcher.WatchConfig(ctx, configFile, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
