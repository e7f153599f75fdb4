package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/uiguide/internal/api"
	"github.com/dgallion1/uiguide/internal/config"
	"github.com/dgallion1/uiguide/internal/figma"
	"github.com/dgallion1/uiguide/internal/llm"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// Initialize clients.
	figmaClient := figma.NewClient(cfg.FigmaAPIBase, cfg.RequestTimeout, cfg.FigmaMaxBytes, log)
	completer, err := llm.New(cfg.LLMOptions(), log)
	if err != nil {
		log.Error("init llm client", "error", err)
		os.Exit(1)
	}
	llmClient := llm.Instrument(completer, llm.NewStats(cfg.LLMStatsWindow))

	gen := pipeline.NewGenerator(figmaClient, llmClient, cfg.FigmaAPIToken, cfg.PromptElementLimit, log)

	// Initialize HTTP server.
	srv := api.NewServer(gen, llmClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		figmaClient.Close()
	}()

	log.Info("starting uiguide",
		"port", cfg.Port,
		"llm_provider", completer.Name(),
		"llm_model", completer.Model(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
