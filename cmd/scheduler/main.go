package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/musicschool-scheduler/internal/application"
	"github.com/example/musicschool-scheduler/internal/config"
	httptransport "github.com/example/musicschool-scheduler/internal/http"
	"github.com/example/musicschool-scheduler/internal/logging"
	"github.com/example/musicschool-scheduler/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	dsn := cfg.SQLiteDSN
	if dsn == "" {
		dsn = sqlite.DefaultDSN
	}

	storage, err := sqlite.Open(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", zap.Error(cerr))
		}
	}()

	directory := sqlite.NewDirectory(storage.DB())

	service := application.NewSchedulingService(
		storage,
		directory,
		directory,
		directory,
		uuid.NewString,
		time.Now,
		cfg.SlotGranularity,
		logger,
	)

	monitor := application.NewOverdueMonitor(service, logger)
	if err := monitor.Start(cfg.OverdueSweep); err != nil {
		logger.Fatal("failed to start overdue monitor", zap.Error(err))
	}
	defer monitor.Stop()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Schedules:    httptransport.NewScheduleHandler(service, logger),
		Conflicts:    httptransport.NewConflictHandler(service, logger),
		Availability: httptransport.NewAvailabilityHandler(service, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", zap.Error(err))
		}
	}()

	logger.Info("scheduler API listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server encountered error", zap.Error(err))
	}
}
