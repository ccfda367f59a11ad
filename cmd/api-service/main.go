package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/internal/api"
	"github.com/larapida/go-webnode/internal/backend"
	"github.com/larapida/go-webnode/internal/service"
	"github.com/larapida/go-webnode/pkg/config"
	"github.com/larapida/go-webnode/pkg/logging"
	"github.com/larapida/go-webnode/pkg/middleware"
	"github.com/larapida/go-webnode/pkg/webnode"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	version    = "dev"
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	opts, err := webnode.Normalize(cfg.NodeOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid node options: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(loggingConfig(opts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting api-service",
		zap.String("version", version),
		zap.String("environment", string(opts.Environment)),
		zap.String("storage", cfg.Storage.Type),
	)

	if opts.Environment == webnode.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	opts.Logger = &webnode.LoggerOptions{Instance: logger}
	opts.Middlewares = []webnode.Middleware{webnode.Handler(api.ErrorHandler())}

	if cfg.Metrics.Enabled {
		metrics, err := middleware.NewMetrics(cfg.Metrics.Namespace)
		if err != nil {
			logger.Error("Failed to create metrics", zap.Error(err))
			return 1
		}
		opts.Middlewares = append(opts.Middlewares, webnode.Factory(metrics.Middleware))
		route := cfg.Metrics.Route
		opts.Routes = func(engine *gin.Engine) {
			engine.GET(route, metrics.Handler())
		}
	}

	var store backend.Backend
	opts.Routers = []webnode.RouterEntry{
		webnode.Lazy(func(ctx context.Context) (webnode.Router, error) {
			s, err := backend.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			store = s
			if err := backend.Seed(ctx, s, cfg.Storage.Seed, logger); err != nil {
				return nil, err
			}

			auth := service.NewAuthService(s.Users(), cfg.JWT, logger)
			if !auth.HasSecret() {
				logger.Warn("JWT secret not configured, authentication endpoints will fail")
			}

			var limiter *middleware.AuthRateLimiter
			if cfg.RateLimit.Enabled {
				limiter = middleware.NewAuthRateLimiter(cfg.RateLimit, logger)
			}
			return api.NewHandlers(auth, s, limiter, logger), nil
		}),
	}
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	node, err := webnode.New(opts)
	if err != nil {
		logger.Error("Failed to create node", zap.Error(err))
		return 1
	}

	err = webnode.Run(context.Background(), node)
	if err != nil {
		logger.Error("api-service stopped", zap.Error(err))
	}
	return webnode.ExitCode(err)
}

// loggingConfig picks the logging configuration of the active environment.
func loggingConfig(opts webnode.Options) logging.Config {
	if lc, ok := opts.Logger.Environments[opts.Environment]; ok {
		return lc
	}
	if opts.Environment == webnode.Development {
		return logging.DevelopmentConfig()
	}
	return logging.DefaultConfig()
}
