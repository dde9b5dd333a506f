package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savegress/taskflow/internal/api"
	"github.com/savegress/taskflow/internal/config"
	"github.com/savegress/taskflow/internal/jobs"
	"github.com/savegress/taskflow/internal/pages"
	"github.com/savegress/taskflow/internal/store"
	"github.com/savegress/taskflow/pkg/workerpool"
)

func main() {
	log.Println("Starting Taskflow...")

	// Load configuration
	cfg := loadConfig()

	// Open the job history store
	st, err := store.NewStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open job store: %v", err)
	}

	// Create the worker pool
	pool, err := workerpool.NewPool(workerpool.Config{
		Workers:         cfg.Pool.Workers,
		ShutdownTimeout: cfg.Pool.ShutdownTimeout,
		ErrorHandler: func(err error) {
			log.Printf("Worker error: %v", err)
		},
	})
	if err != nil {
		st.Close()
		log.Fatalf("Failed to create worker pool: %v", err)
	}
	log.Printf("Worker pool running with %d workers", pool.NumWorkers())

	// Start the jobs engine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := jobs.NewEngine(pool, st, cfg.Storage.Retention)
	if err := engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start jobs engine: %v", err)
	}

	// Create API server
	pageSvc := pages.NewService(pool, cfg.Pages.Dir, cfg.Pages.SleepDelay)
	server := api.NewServer(cfg, engine, pageSvc)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Taskflow API listening on port %d", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Taskflow...")

	// Stop accepting requests first, then drain the pool
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := pool.Stop(); err != nil {
		if errors.Is(err, workerpool.ErrForcedShutdown) {
			log.Printf("Worker pool shutdown timed out, abandoning workers")
		} else {
			log.Printf("Worker pool shutdown error: %v", err)
		}
	}

	if err := st.Close(); err != nil {
		log.Printf("Job store close error: %v", err)
	}

	log.Println("Taskflow stopped")
}

func loadConfig() *config.Config {
	configPath := os.Getenv("TASKFLOW_CONFIG")
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Printf("Failed to load config from %s: %v, using defaults", configPath, err)
			return config.LoadFromEnv()
		}
		return cfg
	}
	return config.LoadFromEnv()
}
