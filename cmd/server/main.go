package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"tutor-agent/handler"
	"tutor-agent/internal/config"
	"tutor-agent/internal/integrations/gemini"
	"tutor-agent/internal/repository"
	"tutor-agent/internal/session"
	"tutor-agent/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	// ---- Recorder ----
	store, err := repository.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open interaction store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// ---- Provider ----
	llm, err := gemini.NewClient(gemini.StaticKey(cfg.GeminiAPIKey))
	if err != nil {
		logger.Error("failed to create gemini client", "err", err)
		os.Exit(1)
	}
	invoker, err := usecase.NewInvoker(llm, cfg.GeminiModel, usecase.RetryPolicy{
		MaxAttempts: cfg.GenerateMaxAttempts,
		Delay:       cfg.GenerateRetryDelay,
	})
	if err != nil {
		logger.Error("failed to create invoker", "err", err)
		os.Exit(1)
	}

	// ---- Orchestration ----
	sessions := session.NewStore(cfg.SessionMaxTurns)
	svc, err := usecase.NewChatService(sessions, invoker, store, logger)
	if err != nil {
		logger.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHTTP(svc, cfg.AllowedOrigins, cfg.RequestTimeout)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.HTTPAddr, "model", cfg.GeminiModel)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: h.Routes()}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
