package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campushire/platform/internal/api/http"
	"github.com/campushire/platform/internal/api/http/handlers"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/config"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/notify"
	"github.com/campushire/platform/internal/observability"
	"github.com/campushire/platform/internal/persistence"
	"github.com/campushire/platform/internal/repository"
	"github.com/campushire/platform/internal/service"
	"github.com/campushire/platform/internal/storage"
	"github.com/campushire/platform/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)
	discussionRepo := repository.NewDiscussionRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	activityFeed := repository.NewActivityFeed(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := notify.NewMailer(cfg.Notification, logger)

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	adminService := service.NewAdminService(*cfg, accountRepo, activityFeed, logger)
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:         jobRepo,
		ApplicationRepo: applicationRepo,
		AccountRepo:     accountRepo,
		Store:           store,
		Dispatcher:      dispatcher,
	})
	courseService := service.NewCourseService(courseRepo, store)
	blogService := service.NewBlogService(blogRepo)
	discussionService := service.NewDiscussionService(discussionRepo)
	eventService := service.NewEventService(eventRepo, dispatcher)

	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.App)
	activityRecorder := service.NewActivityRecorder(activityFeed, logger)
	worker.StartNotificationWorker(notificationService, activityRecorder, dispatcher)

	if err := adminService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Fatal("failed to ensure bootstrap admin", zap.Error(err))
	}

	authMiddleware := auth.NewMiddleware(accountService.SessionManager(), accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping},
			handlers.DependencyCheck{Name: "redis", Ping: redis.Ping},
		),
		Auth:           handlers.NewAuthHandler(accountService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Courses:        handlers.NewCoursesHandler(courseService),
		Blogs:          handlers.NewBlogsHandler(blogService),
		Discussions:    handlers.NewDiscussionsHandler(discussionService),
		Events:         handlers.NewEventsHandler(eventService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
