package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recording-orchestrator/internal/deviceconfig"
	"recording-orchestrator/internal/platform/config"
	"recording-orchestrator/internal/platform/logger"
	"recording-orchestrator/internal/platform/metrics"
	"recording-orchestrator/internal/session"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	configPath := config.GetEnv("CONFIG_PATH", "./config.json")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	removeFiles := config.GetEnvBool("CLEANUP_REMOVE_FILES", true)

	log := logger.New(logLevel, logFormat)

	devCfg, err := deviceconfig.Load(configPath)
	if err != nil {
		log.Error("device configuration error", "error", err, "config_path", configPath)
		os.Exit(1)
	}

	mgr := session.NewManager(devCfg, log, session.WithFileRemoval(removeFiles))
	met := metrics.New()
	h := session.NewHandler(mgr, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		met.Handler(func() {
			_, active := mgr.CurrentInfo()
			met.SetSessionActive(active)
		}).ServeHTTP(w, req)
	})
	h.Routes(r)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"config_path", configPath,
		"default_mode", devCfg.Recording.Mode,
		"base_output_dir", devCfg.Recording.BaseOutputDir,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	// An in-flight session is deliberately left alone: the orchestration
	// layer decides whether to finalize or clean up on restart.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
