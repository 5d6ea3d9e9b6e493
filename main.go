package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skuunup-auth/config"
	"skuunup-auth/internal/adapter/gateway"
	"skuunup-auth/internal/adapter/handler"
	appmiddleware "skuunup-auth/internal/adapter/middleware"
	"skuunup-auth/internal/infrastructure/cache"
	"skuunup-auth/internal/infrastructure/token"
	"skuunup-auth/internal/usecase"
	"skuunup-auth/utils/logger"
	"skuunup-auth/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	// .env is optional outside development
	_ = godotenv.Load()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shutdown OpenTelemetry: %v\n", err)
		}
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"token_ttl", cfg.TokenTTL,
		"cache_ttl", cfg.CacheTTL)

	// Initialize dependencies
	pool, err := gateway.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to identity store", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := gateway.NewIdentityStore(pool, log)

	sessionCache := cache.NewSessionCache(cfg.CacheTTL)
	defer sessionCache.Stop()
	log.InfoContext(ctx, "session cache initialized", "ttl", cfg.CacheTTL)

	codec := token.NewJWTCodec(token.JWTConfig{
		Secret:   cfg.TokenSecret,
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
		TTL:      cfg.TokenTTL,
	})

	resolveSession := usecase.NewResolveSession(codec, sessionCache, store, log)
	issueSession := usecase.NewIssueSession(codec, store, log)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(resolveSession, cfg)
	internalHandler := handler.NewInternalHandler(issueSession, resolveSession, cfg)
	healthHandler := handler.NewHealthHandler(store)

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Tracing middleware, ahead of the request logger so log records carry
	// the request span context
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				log.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				log.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(appmiddleware.SecurityHeaders())

	limiter := appmiddleware.NewRateLimiter(rate.Limit(50), 100)
	defer limiter.Stop()
	e.Use(limiter.Middleware())

	// Register routes
	e.GET("/v1/session", sessionHandler.Resolve)
	e.POST("/v1/logout", sessionHandler.Logout)
	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)

	// Internal routes for service-to-service communication
	internal := e.Group("/internal", appmiddleware.InternalAuth(cfg.InternalSharedSecret))
	internal.POST("/sessions", internalHandler.IssueSession)
	internal.DELETE("/sessions/:subjectId", internalHandler.InvalidateSession)

	// Start server
	address := fmt.Sprintf(":%s", cfg.Port)

	go func() {
		log.InfoContext(ctx, "starting skuunup-auth server", "address", address)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.InfoContext(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.InfoContext(ctx, "server exited properly")
}

// runHealthcheck performs a health check against the local server
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8990"
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}

	return nil
}
