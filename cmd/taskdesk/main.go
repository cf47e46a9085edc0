package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taskdesk/taskdesk/internal/config"
	dbRedis "github.com/taskdesk/taskdesk/internal/db/redis"
	logpkg "github.com/taskdesk/taskdesk/internal/logger"
	"github.com/taskdesk/taskdesk/internal/metrics"
	blobrepo "github.com/taskdesk/taskdesk/internal/repository/blob"
	formrepo "github.com/taskdesk/taskdesk/internal/repository/form"
	masterrepo "github.com/taskdesk/taskdesk/internal/repository/master"
	profilerepo "github.com/taskdesk/taskdesk/internal/repository/profile"
	submissionrepo "github.com/taskdesk/taskdesk/internal/repository/submission"
	taskrepo "github.com/taskdesk/taskdesk/internal/repository/task"
	chiTransport "github.com/taskdesk/taskdesk/internal/transport/chi"
	blobuc "github.com/taskdesk/taskdesk/internal/usecase/blob"
	formuc "github.com/taskdesk/taskdesk/internal/usecase/form"
	healthuc "github.com/taskdesk/taskdesk/internal/usecase/health"
	identityuc "github.com/taskdesk/taskdesk/internal/usecase/identity"
	masteruc "github.com/taskdesk/taskdesk/internal/usecase/master"
	submissionuc "github.com/taskdesk/taskdesk/internal/usecase/submission"
	taskuc "github.com/taskdesk/taskdesk/internal/usecase/task"
	"github.com/taskdesk/taskdesk/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting taskdesk API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Repositories
	prefix := cfg.Storage.KeyPrefix
	formRepo := formrepo.New(store, prefix)
	submissionRepo := submissionrepo.New(store, prefix)
	masterRepo := masterrepo.New(store, prefix)
	taskRepo := taskrepo.New(store, prefix)
	profileRepo := profilerepo.New(store, prefix)
	blobRepo := blobrepo.New(store, prefix)

	// Use case services
	formSvc := formuc.New(formRepo)
	taskSvc := taskuc.New(taskRepo, time.Duration(cfg.Tasks.AtRiskWindowMin)*time.Minute)
	submissionSvc := submissionuc.New(submissionRepo, formRepo, taskRepo, submissionRecorder{})
	masterSvc := masteruc.New(masterRepo)
	identitySvc := identityuc.New(profileRepo)
	blobSvc := blobuc.New(blobRepo, cfg.Storage.MaxBlobSize)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(
		formSvc, submissionSvc, taskSvc, masterSvc, identitySvc, blobSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.Users))
	r.Use(metrics.Middleware())
	server.Routes(r)

	// Escalation sweeper
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runEscalationSweeper(sweepCtx, taskSvc, time.Duration(cfg.Tasks.SweepIntervalSec)*time.Second, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// submissionRecorder bridges the submission service to prometheus counters.
type submissionRecorder struct{}

func (submissionRecorder) ObserveSubmission(outcome string) {
	metrics.ObserveSubmission(outcome)
}

// runEscalationSweeper periodically applies escalation rules to overdue tasks.
func runEscalationSweeper(ctx context.Context, tasks *taskuc.Service, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			escalations, err := tasks.Sweep(ctx)
			if err != nil {
				logger.Error("Escalation sweep failed", zap.Error(err))
				continue
			}
			for _, esc := range escalations {
				logger.Warn("Task escalated",
					zap.String("task_id", esc.Task.ID()),
					zap.String("rule_id", esc.Rule.ID()),
					zap.String("action", esc.Rule.Action()),
				)
			}
		}
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
