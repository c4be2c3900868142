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
	"github.com/zhouzirui/z-counsel/backend/internal/config"
	"github.com/zhouzirui/z-counsel/backend/internal/handler"
	"github.com/zhouzirui/z-counsel/backend/internal/handler/settings"
	chatModel "github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
	"github.com/zhouzirui/z-counsel/backend/internal/service/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/dialogue"
	"github.com/zhouzirui/z-counsel/backend/internal/service/insight"
)

const reapInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// A provider that cannot be set up leaves the service on local replies.
	generator, setupErr := ai.NewGenerator(ctx, cfg.AI)
	switch {
	case setupErr != nil:
		log.Printf("warning: failed to initialize %s provider: %v", cfg.AI.Provider, setupErr)
		log.Println("continuing with local responses only")
		generator = nil
	case generator == nil:
		log.Println("AI provider not configured, using local responses")
	default:
		log.Printf("AI provider %s initialized successfully", generator.Name())
	}

	insightSvc := insight.NewService(generator, insight.Config{
		Enabled: cfg.AI.AnalysisEnabled,
		Timeout: cfg.AI.Timeout,
	})
	if insightSvc.Enabled() {
		log.Println("Conversation analysis via provider enabled")
	}

	chatService := chat.NewService(func(id string) *dialogue.Dialogue {
		return dialogue.New(id, dialogue.Options{
			Generator: generator,
			Insight:   insightSvc,
			Timeout:   cfg.AI.Timeout,
			OnTransition: func(from, to chatModel.Phase) {
				log.Printf("[dialogue] session=%s phase %s -> %s", id, from, to)
			},
		})
	})
	go chatService.RunReaper(ctx, reapInterval, cfg.Session.IdleTimeout)

	router := handler.NewRouter(chatService, settings.New(cfg.AI, generator, setupErr))

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Z Counsel backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
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
