package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	tasknestdocs "tasknest/docs/swagger"
	"tasknest/internal/config"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/infrastructure/ratelimit"
	"tasknest/internal/interfaces/httpserver/handlers"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/interfaces/httpserver/routes"
)

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg         *config.Config
	engine      *gin.Engine
	log         zerolog.Logger
	handlerProv *handlers.Provider
	routeProv   *routes.Provider
}

// New constructs the HTTP server with the full middleware chain and routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	handlerProvider *handlers.Provider,
	tokens *auth.TokenManager,
	users middlewares.UserLookup,
	limits *ratelimit.Suite,
) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	tasknestdocs.SwaggerInfo.BasePath = "/"

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.CORS(cfg.AllowedOrigins))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middlewares.SecurityHeaders())
	engine.Use(middlewares.Logging(log))
	engine.Use(middlewares.Metrics())
	engine.Use(middlewares.RateLimit(limits))
	engine.Use(middlewares.Auth(tokens, users))

	registerPublicRoutes(engine, handlerProvider)

	routeProvider := routes.NewProvider(handlerProvider)
	routeProvider.Register(engine)

	return &HttpServer{
		cfg:         cfg,
		engine:      engine,
		log:         log,
		handlerProv: handlerProvider,
		routeProv:   routeProvider,
	}
}

// Engine exposes the underlying gin engine.
func (s *HttpServer) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerPublicRoutes(engine *gin.Engine, handlerProvider *handlers.Provider) {
	engine.GET("/", handlerProvider.Health.Root)
	engine.GET("/health", handlerProvider.Health.Health)
	engine.GET("/health/live", handlerProvider.Health.Live)
	engine.GET("/health/ready", handlerProvider.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
