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

	"github.com/joho/godotenv"

	"github.com/nmehra/tripsplit/internal/assistant"
	"github.com/nmehra/tripsplit/internal/config"
	"github.com/nmehra/tripsplit/internal/events"
	"github.com/nmehra/tripsplit/internal/server"
	"github.com/nmehra/tripsplit/internal/service"
	"github.com/nmehra/tripsplit/internal/storage/sqlite"
	"github.com/nmehra/tripsplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		slog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		slog.Info("Event publishing disabled - AMQP_URL not set")
	}

	ai := assistant.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	users := service.NewUserService(store)
	groups := service.NewGroupService(store, users, ai, publisher)
	ledgerSvc := service.NewLedgerService(store, publisher)
	summaries := service.NewSummaryService(store, ledgerSvc, ai)

	handler := server.NewHandler(users, groups, ledgerSvc, summaries)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Routes(),
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
