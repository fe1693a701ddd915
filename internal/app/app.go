package app

import (
	"context"
	"doe_backend/internal/config"
	"doe_backend/internal/controller"
	"doe_backend/internal/repository"
	"doe_backend/internal/service"
	"doe_backend/pkg/configwatcher"
	"doe_backend/pkg/database"
	"doe_backend/pkg/logger"
	"doe_backend/pkg/monitoring"
	"doe_backend/pkg/security"
	"doe_backend/pkg/tracing"
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
	rateLimit       *security.RateLimit
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	completion *repository.CompletionRepository
	challenge  *repository.ChallengeRepository
	attempt    *repository.ChallengeAttemptRepository
	content    *repository.ContentRepository
	quiz       *repository.QuizRepository
	chitChat   *repository.ChitChatRepository
	reward     *repository.RewardRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	flash      *service.FlashService
	settlement *service.SettlementService
	lifecycle  *service.ChallengeAttemptService
	challenge  *service.ChallengeService
	content    *service.ContentService
	chitChat   *service.ChitChatService
	quiz       *service.QuizService
	reward     *service.RewardService
	invite     *service.InviteService
	user       *service.UserService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	challenge *controller.ChallengeController
	attempt   *controller.AttemptController
	content   *controller.ContentController
	chitChat  *controller.ChitChatController
	quiz      *controller.QuizController
	reward    *controller.RewardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		completion: repository.NewCompletionRepository(db),
		challenge:  repository.NewChallengeRepository(db),
		attempt:    repository.NewChallengeAttemptRepository(db),
		content:    repository.NewContentRepository(db),
		quiz:       repository.NewQuizRepository(db),
		chitChat:   repository.NewChitChatRepository(db),
		reward:     repository.NewRewardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	mailer := service.NewSMTPMailer(&cfg.Mail)

	s.storage = service.NewStorageService(cfg)
	s.flash = service.NewFlashService(rdb, cfg.FlashTTL())
	s.auth = service.NewAuthService(db, repos.user, mailer, cfg)
	s.settlement = service.NewSettlementService(db, repos.challenge, repos.attempt, repos.completion)
	s.lifecycle = service.NewChallengeAttemptService(db, repos.challenge, repos.attempt)
	s.challenge = service.NewChallengeService(repos.challenge, repos.attempt, s.lifecycle, s.settlement)
	s.content = service.NewContentService(repos.content, repos.completion, s.settlement, s.storage)
	s.chitChat = service.NewChitChatService(db, repos.chitChat, s.settlement)
	s.quiz = service.NewQuizService(db, repos.quiz, repos.completion)
	s.reward = service.NewRewardService(db, repos.reward, repos.user, mailer, cfg)
	s.invite = service.NewInviteService(repos.user, mailer, cfg)
	s.user = service.NewUserService(repos.user, repos.reward, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user),
		challenge: controller.NewChallengeController(s.challenge, s.flash),
		attempt:   controller.NewAttemptController(s.challenge, s.lifecycle, s.flash),
		content:   controller.NewContentController(s.content),
		chitChat:  controller.NewChitChatController(s.chitChat),
		quiz:      controller.NewQuizController(s.quiz),
		reward:    controller.NewRewardController(s.reward, s.invite),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.rateLimit = security.NewRateLimit(cfg.RateLimit.MaxRequests, cfg.RateWindow())
	router.Use(a.rateLimit.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// shouldMigrate debug 模式默认迁移，release 模式需显式指定
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.MigrateOnly || cfg.Server.Mode != gin.ReleaseMode
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if shouldMigrate(cfg) {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migrated")
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("doe-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.rateLimit.Update(newCfg.RateLimit.MaxRequests, newCfg.RateWindow())
	})

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.ConfigDir == "" {
		return
	}
	file := filepath.Join(a.Config.ConfigDir, "config.yaml")
	err := configwatcher.Watch(ctx, file, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	a.watchConfig(watchCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}
