package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/haiminhwork/task_management_sample/internal/auth"
	"github.com/haiminhwork/task_management_sample/internal/config"
	"github.com/haiminhwork/task_management_sample/internal/database"
	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/handler"
	"github.com/haiminhwork/task_management_sample/internal/logger"
	"github.com/haiminhwork/task_management_sample/internal/repository"
	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/pkg/taskreport"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB

	cfg *config.EnvConfig
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	a.cfg = cfg

	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:            cfg.DB_HOST,
		Port:            cfg.DB_PORT,
		User:            cfg.DB_USER,
		Password:        cfg.DB_PASSWORD,
		DBName:          cfg.DB_NAME,
		SSLMode:         cfg.DB_SSL_MODE,
		MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	txManager := repository.NewTxManager(db)

	// Services
	tokens := auth.NewTokenManager(cfg.JWT_SECRET, time.Duration(cfg.JWT_TTL_HOURS)*time.Hour)
	authSvc := service.NewAuthService(userRepo, tokens)
	taskSvc := service.NewTaskService(taskRepo, userRepo, activityRepo, txManager)
	userSvc := service.NewUserService(userRepo, taskRepo)
	statsSvc := service.NewStatsService(statsRepo, userRepo, activityRepo)

	reportCfg := taskreport.DefaultConfig()
	if cfg.REPORT_CONFIG_PATH != "" {
		loaded, err := taskreport.LoadConfigFile(cfg.REPORT_CONFIG_PATH)
		if err != nil {
			logger.ErrorLog(ctx, "failed to load report config, using default: %v", err)
		} else {
			reportCfg = loaded
		}
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	taskHandler := handler.NewTaskHandler(taskSvc, statsSvc, reportCfg)
	userHandler := handler.NewUserHandler(userSvc, statsSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	healthHandler := handler.NewHealthHandler(db)

	a.RegisterMiddlewares()
	a.RegisterRoutes(tokens, userRepo, authHandler, taskHandler, userHandler, statsHandler, healthHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(
	tokens *auth.TokenManager,
	userRepo domain.UserRepository,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	userHandler *handler.UserHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) {
	a.Echo.GET("/health", healthHandler.HealthHandler)

	authGroup := a.Echo.Group("/auth")
	authGroup.POST("/register", authHandler.RegisterHandler)
	authGroup.POST("/login", authHandler.LoginHandler)

	requireAuth := handler.RequireAuth(tokens, userRepo)

	authGroup.POST("/logout", authHandler.LogoutHandler, requireAuth)
	authGroup.GET("/profile", authHandler.ProfileHandler, requireAuth)
	authGroup.PATCH("/profile", authHandler.UpdateProfileHandler, requireAuth)
	authGroup.POST("/change-password", authHandler.ChangePasswordHandler, requireAuth)
	authGroup.GET("/verify", authHandler.VerifyHandler, requireAuth)

	taskGroup := a.Echo.Group("/tasks", requireAuth)
	taskGroup.GET("", taskHandler.ListHandler)
	taskGroup.POST("", taskHandler.CreateHandler)
	taskGroup.GET("/overdue", taskHandler.OverdueHandler)
	taskGroup.GET("/export", taskHandler.ExportHandler)
	taskGroup.PATCH("/bulk", taskHandler.BulkUpdateHandler)
	taskGroup.GET("/assignee/:id", taskHandler.ByAssigneeHandler)
	taskGroup.GET("/:id", taskHandler.GetHandler)
	taskGroup.PATCH("/:id", taskHandler.UpdateHandler)
	taskGroup.DELETE("/:id", taskHandler.DeleteHandler)
	taskGroup.GET("/:id/activity", taskHandler.ActivityHandler)

	userGroup := a.Echo.Group("/users", requireAuth)
	userGroup.GET("", userHandler.ListHandler)
	userGroup.GET("/dashboard", userHandler.DashboardHandler)
	userGroup.GET("/dashboard/:id", userHandler.DashboardHandler)
	userGroup.GET("/:id", userHandler.GetHandler)
	userGroup.PATCH("/:id", userHandler.UpdateHandler)
	userGroup.DELETE("/:id", userHandler.DeleteHandler)
	userGroup.PATCH("/:id/role", userHandler.ChangeRoleHandler)

	statsGroup := a.Echo.Group("/stats", requireAuth)
	statsGroup.GET("/overview", statsHandler.OverviewHandler)
	statsGroup.GET("/analytics", statsHandler.AnalyticsHandler)
	statsGroup.GET("/team", statsHandler.TeamHandler)
	statsGroup.GET("/system", statsHandler.SystemHandler)
	statsGroup.GET("/user", statsHandler.UserStatsHandler)
}

func (a *App) Run() error {
	defer a.DB.Close()
	return a.Echo.Start(":" + a.cfg.APP_PORT)
}
