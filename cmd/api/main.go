// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/config"
	"github.com/sweetnothings-bakery/super-receptionist/internal/events"
	"github.com/sweetnothings-bakery/super-receptionist/internal/handler"
	"github.com/sweetnothings-bakery/super-receptionist/internal/llm"
	"github.com/sweetnothings-bakery/super-receptionist/internal/middleware"
	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "super-receptionist", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to MongoDB
	storeClient, err := store.Connect(ctx, store.Config{
		URL:            cfg.MongoURL,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, log)
	if err != nil {
		log.Error("failed to connect to MongoDB", zap.Error(err))
		os.Exit(1)
	}
	defer storeClient.Close(ctx)

	if err := storeClient.EnsureIndexes(ctx); err != nil {
		log.Error("failed to ensure indexes", zap.Error(err))
		os.Exit(1)
	}

	// Event feed is optional: without a NATS URL events are dropped.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsClient, err := events.Connect(ctx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer natsClient.Close()
			js, err := events.NewJetStreamPublisher(ctx, natsClient)
			if err != nil {
				log.Warn("failed to ensure event stream, events disabled", zap.Error(err))
			} else {
				publisher = js
			}
		}
	}

	// Initialize the LLM client
	var llmClient llm.Client
	var llmModel string
	switch {
	case cfg.LLMProvider == string(llm.ProviderOpenAI) && cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		llmModel = cfg.OpenAIModel
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		llmModel = cfg.AnthropicModel
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		llmModel = cfg.OpenAIModel
	default:
		log.Error("no LLM API key configured")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("LLM client ready", zap.String("provider", llmClient.Name()), zap.String("model", llmModel))

	// Stores
	messageStore := store.NewMessageStore(storeClient)
	catalogStore := store.NewCatalogStore(storeClient)
	promptStore := store.NewPromptStore(storeClient)
	orderStore := store.NewOrderStore(storeClient)
	imageStore := store.NewImageStore(storeClient)

	// Services
	catalogSvc := service.NewCatalogService(catalogStore, promptStore, log)
	chatSvc := service.NewChatService(messageStore, catalogSvc, llmClient, publisher, log, service.ChatOptions{
		Model:     llmModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	})
	orderSvc := service.NewOrderService(orderStore, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(storeClient)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, log)
	orderHandler := handler.NewOrderHandler(orderSvc, log)
	uploadHandler := handler.NewUploadHandler(imageStore, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Conversation-ID"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Chat endpoints, rate limited per conversation key
		r.Group(func(r chi.Router) {
			r.Use(middleware.ChatRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Post("/chat", chatHandler.Send)
			r.Post("/chat/messages/{messageID}/edit", chatHandler.Edit)
			r.Get("/chat/conversations", chatHandler.ListConversations)
			r.Get("/chat/history/{conversationID}", chatHandler.History)
			r.Delete("/chat/history/{conversationID}", chatHandler.DeleteConversation)
		})

		// Shop configuration and bookkeeping, behind admin auth
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Get("/menu", catalogHandler.GetMenu)
			r.Put("/menu", catalogHandler.UpdateMenu)
			r.Get("/cake-designs", catalogHandler.GetCakeDesigns)
			r.Put("/cake-designs", catalogHandler.UpdateCakeDesigns)
			r.Get("/system-prompt", catalogHandler.GetSystemPrompt)
			r.Put("/system-prompt", catalogHandler.UpdateSystemPrompt)
			r.Get("/system-prompt/history", catalogHandler.SystemPromptHistory)
			r.Get("/conversion-instructions", catalogHandler.GetConversionInstructions)
			r.Put("/conversion-instructions", catalogHandler.UpdateConversionInstructions)

			r.Post("/uploads", uploadHandler.Upload)
			r.Get("/uploads/{imageID}", uploadHandler.Download)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", orderHandler.Create)
				r.Get("/", orderHandler.List)
				r.Get("/summaries", orderHandler.Summaries)
				r.Get("/{orderID}", orderHandler.Get)
				r.Get("/{orderID}/details", orderHandler.Details)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
