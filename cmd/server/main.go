// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/outreach-backend/internal/ai"
	"github.com/unclebandit/outreach-backend/internal/auth"
	"github.com/unclebandit/outreach-backend/internal/cache"
	"github.com/unclebandit/outreach-backend/internal/config"
	"github.com/unclebandit/outreach-backend/internal/controller"
	"github.com/unclebandit/outreach-backend/internal/db"
	"github.com/unclebandit/outreach-backend/internal/handler"
	"github.com/unclebandit/outreach-backend/internal/queue"
	"github.com/unclebandit/outreach-backend/internal/repository"
	"github.com/unclebandit/outreach-backend/internal/server"
	"github.com/unclebandit/outreach-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	var q queue.Queue
	if cfg.AMQPURL != "" {
		aq, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer aq.Close()
		q = aq
	} else {
		logger.Info("AMQP_URL not set, using in-memory event queue")
		q = queue.NewInMemoryQueue()
	}

	listings := cache.NewListingCache(cfg.ListCacheTTL)
	if err := queue.StartCacheInvalidationSubscriber(q, listings); err != nil {
		return err
	}

	model, err := ai.NewOpenRouterModel(ai.ModelOptions{
		BaseURL: cfg.OpenRouterBaseURL,
		APIKey:  cfg.OpenRouterAPIKey,
		Model:   cfg.Model,
		Timeout: cfg.CompletionTimeout,
	})
	if err != nil {
		return err
	}

	campaignService := &service.CampaignService{
		Tasks:        service.NewTasks(ai.NewTextClient(model, cfg.CompletionTimeout)),
		CampaignRepo: &repository.CampaignRepository{DB: conn},
		Queue:        q,
		Cache:        listings,
	}

	router := server.NewRouter(
		auth.NewVerifier(cfg.JWTSecret),
		&controller.OutreachController{Service: campaignService},
		handler.NewCampaignHandler(campaignService),
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr), zap.String("model", cfg.Model))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
