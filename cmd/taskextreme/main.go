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

	"github.com/sandeepkv93/taskextreme/internal/ai"
	"github.com/sandeepkv93/taskextreme/internal/config"
	"github.com/sandeepkv93/taskextreme/internal/server"
	"github.com/sandeepkv93/taskextreme/internal/storage"
	"github.com/sandeepkv93/taskextreme/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		slog.Error("storage", "error", err)
		os.Exit(1)
	}
	defer closeSlot()

	tasks, err := store.Open(slot)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}

	var client *ai.Client
	if cfg.HasCredential() {
		client = ai.NewClient(cfg.Token, cfg.AIEndpoint, cfg.AIModel, cfg.AITimeout)
	} else {
		slog.Warn("no AI credential configured, generation runs in degraded mode")
	}
	pipeline := ai.NewPipeline(client)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(pipeline, tasks).Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("taskextreme listening", "addr", cfg.Addr, "driver", cfg.StorageDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func openSlot(cfg config.Config) (storage.Slot, func(), error) {
	switch cfg.StorageDriver {
	case "sqlite":
		slot, err := storage.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() { _ = slot.Close() }, nil
	default:
		slot, err := storage.NewJSONSlot(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil
	}
}
