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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bea-tech/site-assistant/internal/config"
	"github.com/bea-tech/site-assistant/internal/events"
	"github.com/bea-tech/site-assistant/internal/handler"
	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/internal/middleware"
	"github.com/bea-tech/site-assistant/internal/session"
	"github.com/bea-tech/site-assistant/pkg/logger"
	"github.com/bea-tech/site-assistant/pkg/tracing"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

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
		tp, err := tracing.InitTracer(ctx, "site-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Event publishing is optional; the chat core works without it.
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.Connect(cfg.NATSURL, log)
		if err != nil {
			log.Warn("failed to connect to NATS, event publishing disabled", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	// Without a credential the server still starts; chat endpoints
	// report the configuration problem instead of crashing the site.
	var llmClient llm.Client
	if cfg.CompletionConfigured() {
		switch llm.Provider(cfg.LLMProvider) {
		case llm.ProviderOpenAI:
			llmClient, err = llm.NewClient(ctx, llm.ProviderOpenAI, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		default:
			llmClient, err = llm.NewClient(ctx, llm.ProviderGemini, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		if err != nil {
			log.Warn("failed to create completion client, chat disabled", zap.Error(err))
			llmClient = nil
		}
	} else {
		log.Warn("no completion service credential configured, chat disabled")
	}

	sessionManager := session.NewManager(llmClient, publisher, log)

	healthHandler := handler.NewHealthHandler(llmClient)
	chatHandler := handler.NewChatHandler(llmClient, log)
	sessionHandler := handler.NewSessionHandler(sessionManager, log)
	contentHandler := handler.NewContentHandler()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Stateless completion proxy (history kept by the client)
	r.With(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)).
		Post("/api/chat", chatHandler.Complete)

	// Server-side widget sessions and site content
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/messages", sessionHandler.Send)
				r.Post("/reset", sessionHandler.Reset)
				r.Post("/form-ack", sessionHandler.ClearForm)
			})
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/services", contentHandler.Services)
			r.Get("/products", contentHandler.Products)
			r.Get("/testimonials", contentHandler.Testimonials)
			r.Get("/contact", contentHandler.Contact)
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
