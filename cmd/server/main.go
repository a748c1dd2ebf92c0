// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpAdapter "github.com/docuchat/docuchat/pkg/adapters/http"
	"github.com/docuchat/docuchat/pkg/core/config"
	"github.com/docuchat/docuchat/pkg/core/engine"
	"github.com/docuchat/docuchat/pkg/core/services"
	"github.com/docuchat/docuchat/pkg/docstore"
	_ "github.com/docuchat/docuchat/pkg/docstore/memory"
	_ "github.com/docuchat/docuchat/pkg/docstore/postgres"
	_ "github.com/docuchat/docuchat/pkg/docstore/sqlite"
	"github.com/docuchat/docuchat/pkg/filestore"
	_ "github.com/docuchat/docuchat/pkg/filestore/filesystem"
	_ "github.com/docuchat/docuchat/pkg/filestore/memory"
	_ "github.com/docuchat/docuchat/pkg/filestore/s3"
	"github.com/docuchat/docuchat/pkg/observability/logging"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Print version
	if *version {
		fmt.Printf("Docuchat Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Load .env if present so OPENAI_API_KEY and friends are picked up
	_ = godotenv.Load()

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  "info",
		Format: "json",
	})
	logger.Info("Starting Docuchat Server",
		"version", Version,
		"build_time", BuildTime)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Override port if specified
	if *port != 8080 {
		cfg.Server.Port = *port
	}

	initCtx := context.Background()

	// Initialize document store
	docs, err := docstore.Providers.New(initCtx, cfg.DocStore.Type, map[string]string{
		"path": cfg.DocStore.SQLitePath,
		"dsn":  cfg.DocStore.PostgresDSN,
	})
	if err != nil {
		logger.Error("Failed to initialize document store", "type", cfg.DocStore.Type, "error", err)
		os.Exit(1)
	}
	defer docs.Close(context.Background())
	logger.Info("Initialized document store", "type", cfg.DocStore.Type)

	// Initialize file store
	files, err := filestore.Providers.New(initCtx, cfg.FileStore.Type, map[string]string{
		"base_dir": cfg.FileStore.BaseDir,
		"bucket":   cfg.FileStore.S3Bucket,
		"region":   cfg.FileStore.S3Region,
		"prefix":   cfg.FileStore.S3Prefix,
		"endpoint": cfg.FileStore.S3Endpoint,
	})
	if err != nil {
		logger.Error("Failed to initialize file store", "type", cfg.FileStore.Type, "error", err)
		os.Exit(1)
	}
	defer files.Close(context.Background())
	logger.Info("Initialized file store", "type", cfg.FileStore.Type)

	// Initialize document service
	service := services.NewDocumentService(docs, files, logger)

	// Initialize chat engine
	eng, err := engine.New(&cfg.Engine, docs)
	if err != nil {
		logger.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized chat engine", "model", cfg.Engine.Model)

	// Initialize HTTP adapter
	handler := httpAdapter.New(service, eng, docs, files, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
