package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/drug-interactions-api/config"
	"github.com/giygas/drug-interactions-api/data"
	"github.com/giygas/drug-interactions-api/engine"
	"github.com/giygas/drug-interactions-api/handlers"
	"github.com/giygas/drug-interactions-api/health"
	"github.com/giygas/drug-interactions-api/knowledgeparser"
	"github.com/giygas/drug-interactions-api/logging"
	"github.com/giygas/drug-interactions-api/scheduler"
	"github.com/giygas/drug-interactions-api/server"
	"github.com/giygas/drug-interactions-api/validation"
)

func main() {
	verbose := flag.Bool("v", false, "log at debug level on the console")
	flag.Parse()

	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(logging.Options{
		Dir:            "logs",
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		Verbose:        *verbose,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	}); err != nil {
		logging.Warn("File logging disabled", "error", err)
	}
	defer logging.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"knowledge_source", cfg.KnowledgeSource,
		"reload_schedule", cfg.ReloadSchedule,
		"max_drugs_per_analysis", cfg.MaxDrugsPerAnalysis)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	parser := knowledgeparser.NewKnowledgeParser(cfg.KnowledgeSource, cfg.KnowledgePath)

	sched := scheduler.NewScheduler(dataContainer, parser, validator, cfg.ReloadSchedule)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	eng := engine.New(dataContainer, engine.Options{
		MaxDrugs: cfg.MaxDrugsPerAnalysis,
		MaxBatch: cfg.MaxBatchSize,
		Workers:  cfg.AnalysisWorkers,
	})
	healthChecker := health.NewHealthChecker(dataContainer, cfg.ReloadSchedule)
	handler := handlers.NewHTTPHandler(eng, dataContainer, validator, healthChecker)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

// loadEnv reads .env from the working directory, then from the executable directory
func loadEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to get executable path:", err)
		return
	}

	exPath := filepath.Dir(ex)
	if err := os.Chdir(exPath); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to change directory:", err)
		return
	}
	// A missing file is fine, the environment may be set by the service manager
	_ = godotenv.Load()
}
