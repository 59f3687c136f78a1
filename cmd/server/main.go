// BankBot - Conversational Banking Server
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rsharan/bankbot/internal/api"
	"github.com/rsharan/bankbot/internal/chat"
	"github.com/rsharan/bankbot/internal/config"
	"github.com/rsharan/bankbot/internal/dialogue"
	"github.com/rsharan/bankbot/internal/identity"
	"github.com/rsharan/bankbot/internal/middleware"
	"github.com/rsharan/bankbot/internal/nlu"
	"github.com/rsharan/bankbot/internal/responder"
	"github.com/rsharan/bankbot/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	if cfg.SeedDemoData {
		if err := store.SeedDemoData(context.Background(), repo); err != nil {
			slog.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	// Intent resolution: classifier artifact plus fuzzy fallback examples.
	// Both degrade gracefully when the files are missing.
	model := nlu.NewModel(cfg.ModelPath)
	examples := nlu.NewExampleSet(cfg.IntentsPath)
	resolver := nlu.NewResolver(model, examples)

	// Open-domain responder gRPC client (optional).
	var openResponder dialogue.Responder
	if cfg.ResponderAddr != "" {
		slog.Info("Attempting to connect to responder service via gRPC", "address", cfg.ResponderAddr)
		client, err := responder.NewClient(cfg.ResponderAddr, logger)
		if err != nil {
			slog.Warn("Failed to connect to responder, open-domain replies will use the fallback", "error", err)
		} else {
			defer client.Close()
			openResponder = client
		}
	}
	if openResponder == nil {
		slog.Info("Open-domain responder disabled (RESPONDER_ADDR not set or connection failed)")
	}

	turnLog, err := dialogue.NewTurnLogger(dialogue.TurnLogConfig{
		Enabled:   cfg.TurnLog.Enabled,
		Dir:       cfg.TurnLog.Dir,
		QueueSize: cfg.TurnLog.QueueSize,
	})
	if err != nil {
		slog.Error("Failed to initialize turn logger", "error", err)
		os.Exit(1)
	}
	defer turnLog.Close()

	sessions := dialogue.NewSessionStore()
	engine := dialogue.NewEngine(sessions, resolver, repo, openResponder, turnLog)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo)
	chatHandler := api.NewChatHandler(baseHandler, engine)
	accountHandler := api.NewAccountHandler(baseHandler)
	healthHandler := api.NewHealthHandler(repo)
	cm := chat.NewConnManager()
	wsHandler := chat.NewWebSocketHandler(engine, cm, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	chatHandler.RegisterRoutes(r)
	accountHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket sessions stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start the idle-session sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartSweeper(ctx, cfg.SessionTTL)
	slog.Info("Session sweeper started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// WebSocket connections are hijacked and survive Shutdown.
	cm.CloseAll()

	slog.Info("Server stopped successfully")
}
