package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/config"
	gatePkg "github.com/salaryrep/backend/internal/gate"
	"github.com/salaryrep/backend/internal/handler"
	"github.com/salaryrep/backend/internal/model/persona"
	"github.com/salaryrep/backend/internal/observability"
	"github.com/salaryrep/backend/internal/service/ai"
	feedbackservice "github.com/salaryrep/backend/internal/service/feedback"
	leadservice "github.com/salaryrep/backend/internal/service/lead"
	negotiationservice "github.com/salaryrep/backend/internal/service/negotiation"
	"github.com/salaryrep/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	gate := gatePkg.New(db, cfg.Gate.FreeSessionLimit)
	personaStore := persona.NewMemoryStore(persona.Seed())

	var responder negotiationservice.Responder
	var generator feedbackservice.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, personaStore, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI service, generation endpoints disabled", zap.Error(err))
		} else {
			responder = aiService
			generator = aiService
			logger.Info("AI service initialized")
		}
	} else {
		logger.Warn("ark credentials not configured, generation endpoints disabled")
	}

	sessions := negotiationservice.NewService(responder, logger)
	evaluator := feedbackservice.NewService(generator, logger)
	leads := leadservice.NewService(db, gate, logger)

	router := handler.NewRouter(handler.Deps{
		Personas:  personaStore,
		Sessions:  sessions,
		Evaluator: evaluator,
		Leads:     leads,
		Gate:      gate,
		Streaming: responder != nil,
		Logger:    logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("SalaryRep backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
