package app

import (
	"context"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/controller"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"english_edu_backend/pkg/database"
	"english_edu_backend/pkg/logger"
	"english_edu_backend/pkg/monitoring"
	"english_edu_backend/pkg/security"
	"english_edu_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	scheduler       *gocron.Scheduler
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	lesson   *repository.LessonRepository
	task     *repository.TaskRepository
	attempt  *repository.AttemptRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth     *service.AuthService
	attempt  *service.AttemptService
	catalog  *service.CatalogService
	task     *service.TaskService
	progress *service.ProgressService
	billing  *service.BillingService
	storage  *service.StorageService
	content  *service.ContentService
	audit    *service.AuditService
}

type controllers struct {
	auth     *controller.AuthController
	attempt  *controller.AttemptController
	catalog  *controller.CatalogController
	task     *controller.TaskController
	progress *controller.ProgressController
	billing  *controller.BillingController
	content  *controller.ContentController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig fans a freshly parsed config out to registered callbacks. Only
// settings read per request (catalog prefixes, rate limits) take effect; the
// database connection and routes are fixed at startup.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		lesson:   repository.NewLessonRepository(db),
		task:     repository.NewTaskRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.attempt = service.NewAttemptService(repos.attempt, repos.task, repos.lesson, repos.progress, db)
	s.catalog = service.NewCatalogService(repos.lesson, repos.task, rdb, cfg)
	s.task = service.NewTaskService(repos.task, repos.lesson, repos.attempt)
	s.progress = service.NewProgressService(repos.progress, repos.lesson, cfg)
	s.billing = service.NewBillingService(repos.user, db)
	s.content = service.NewContentService(repos.lesson, s.storage)
	s.audit = service.NewAuditService(repos.progress, repos.attempt)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		attempt:  controller.NewAttemptController(s.attempt),
		catalog:  controller.NewCatalogController(s.catalog),
		task:     controller.NewTaskController(s.task),
		progress: controller.NewProgressController(s.progress),
		billing:  controller.NewBillingController(s.billing, a.Config),
		content:  controller.NewContentController(s.content),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks schedules the hourly aggregate audit.
func (a *App) startBackgroundTasks(s *services) {
	a.scheduler = gocron.NewScheduler(time.UTC)
	a.scheduler.Every(1).Hour().Do(func() {
		if _, err := s.audit.ReconcileAggregates(); err != nil {
			logger.Log.Error("aggregate audit failed", zap.Error(err))
		}
	})
	a.scheduler.StartAsync()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Migration finished, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis only backs the advisory catalog cache; start without it.
		logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("english-edu-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
