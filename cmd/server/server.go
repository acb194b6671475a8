package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"tasknest/internal/config"
	"tasknest/internal/domain/agent"
	"tasknest/internal/domain/chat"
	"tasknest/internal/domain/task"
	"tasknest/internal/domain/user"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/infrastructure/database"
	"tasknest/internal/infrastructure/llmprovider"
	"tasknest/internal/infrastructure/logger"
	"tasknest/internal/infrastructure/observability"
	"tasknest/internal/infrastructure/ratelimit"
	chatrepo "tasknest/internal/infrastructure/repository/chat"
	taskrepo "tasknest/internal/infrastructure/repository/task"
	userrepo "tasknest/internal/infrastructure/repository/user"
	"tasknest/internal/interfaces/httpserver"
	"tasknest/internal/interfaces/httpserver/handlers"
)

// @title Tasknest API
// @version 1.0
// @description Task management service with JWT auth, per-user isolation and an AI assistant.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

// userLookup adapts the user service to the auth middleware.
type userLookup struct {
	users *user.Service
}

func (l *userLookup) Exists(ctx context.Context, id uuid.UUID) bool {
	_, err := l.users.Get(ctx, id)
	return err == nil
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	userRepository := userrepo.NewPostgresRepository(db)
	taskRepository := taskrepo.NewPostgresRepository(db)
	chatRepository := chatrepo.NewPostgresRepository(db)

	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userService := user.NewService(userRepository, hasher)
	taskService := task.NewService(taskRepository)

	llmClient := llmprovider.NewClient(llmprovider.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
	taskAgent := agent.New(llmClient, agent.NewToolset(taskService), agent.Config{
		Model:        cfg.AgentModel,
		MaxToolDepth: cfg.MaxToolDepth,
		ToolTimeout:  cfg.ToolTimeout,
	}, log)
	chatService := chat.NewService(chatRepository, taskAgent)

	limits := ratelimit.NewSuite(ratelimit.SuiteConfig{
		Global:   ratelimit.Window{Max: cfg.RateLimitGlobalMax, Per: cfg.RateLimitGlobalWindow},
		PerIP:    ratelimit.Window{Max: cfg.RateLimitIPMax, Per: cfg.RateLimitIPWindow},
		Login:    ratelimit.Window{Max: cfg.RateLimitLoginMax, Per: cfg.RateLimitLoginWindow},
		Register: ratelimit.Window{Max: cfg.RateLimitRegisterMax, Per: cfg.RateLimitRegisterWindow},
		Validate: ratelimit.Window{Max: cfg.RateLimitValidateMax, Per: cfg.RateLimitValidateWindow},
	})

	handlerProvider := handlers.NewProvider(
		cfg.ServiceName,
		userService,
		tokens,
		taskService,
		chatService,
		taskAgent,
		db,
		log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, tokens, &userLookup{users: userService}, limits)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
