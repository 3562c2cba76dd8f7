package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pathways-backend/internal/bootstrap"
	"pathways-backend/internal/shared/config"
	"pathways-backend/internal/shared/server"
	"pathways-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("server.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Warn("server.shutdown_failed", map[string]any{"error": err.Error()})
		}
	}()

	telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env, "llm_provider": cfg.LLMProvider})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("server.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("server.stopped", nil)
}
