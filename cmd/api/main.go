package main

import (
	"log"
	"net/http"
	"time"

	"chat-helper/internal/config"
	apihttp "chat-helper/internal/http"
	"chat-helper/internal/llm"
	"chat-helper/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	llmClient, err := llm.NewStreamClient(cfg, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}
	if !llmClient.IsConfigured() {
		// No es fatal: cada request responde 500 con el mensaje de configuración.
		logger.Warn("llm api key not configured", zap.String("env", cfg.APIKeyEnv()))
	}

	relaySvc := service.NewRelayService(llmClient, logger)
	chatHandler := apihttp.NewChatHandler(logger, relaySvc, cfg.MissingKeyMessage())
	router := apihttp.NewRouter(logger, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("provider", llmClient.ProviderName()),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
