package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/config"
	"github.com/justsurfingit/nextstep-web/internal/database"
	"github.com/justsurfingit/nextstep-web/internal/handlers"
	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/telemetry"
)

const serviceName = "nextstep-web"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load environment variables. A missing .env is fine outside local dev.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded", slog.String("error", err.Error()))
	}
	cfg := config.Load()

	shutdownTracing, err := telemetry.Setup(context.Background(), serviceName, cfg)
	if err != nil {
		logger.Warn("tracing disabled", slog.String("error", err.Error()))
	}

	// 2. Session storage
	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Error("session store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Backend client and services
	client := apiclient.New(cfg.APIURL, cfg.APITimeout)
	jobService := services.NewJobService(client)

	deps := handlers.Deps{
		Sessions:           session.NewManager(store, cfg.CookieSecure),
		Auth:               services.NewAuthService(client),
		Jobs:               jobService,
		Accounts:           services.NewAccountService(client),
		Applications:       services.NewApplicationService(client),
		MaxUploadBytes:     cfg.MaxUploadBytes,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	}

	// 4. Optional posting assistant
	if cfg.GeminiAPIKey != "" {
		assistant, err := services.NewPostingAssistant(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("posting assistant disabled", slog.String("error", err.Error()))
		} else {
			deps.Assistant = assistant
		}
	}

	// 5. Router
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
	router, err := handlers.NewRouter(deps)
	if err != nil {
		logger.Error("router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr), slog.String("api_url", cfg.APIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
}

// newSessionStore keeps sessions in memory unless a database DSN is set.
func newSessionStore(cfg config.Config) (session.Store, error) {
	if cfg.SessionDBDSN == "" {
		slog.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	}
	db, err := database.Connect(cfg.SessionDBDriver, cfg.SessionDBDSN)
	if err != nil {
		return nil, err
	}
	return session.NewGormStore(db), nil
}
