package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellness_tracker/internal/api"
	"wellness_tracker/internal/middleware"
	"wellness_tracker/internal/notify"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/service"
	"wellness_tracker/pkg/auth"
	"wellness_tracker/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts.Config)
		},
	}
}

// buildNotifiers always includes the in-process hub. Redis and Telegram are
// added when configured.
func buildNotifiers(ctx context.Context, cfg *Config, hub *notify.Hub) ([]service.UnlockNotifier, error) {
	log := logger.Logger()
	notifiers := []service.UnlockNotifier{hub}

	if cfg.Redis.Addr != "" {
		rn := notify.NewRedisNotifier(notify.NewRedisClient(cfg.Redis), cfg.Redis.Channel)
		notifiers = append(notifiers, rn)
		go func() {
			if err := rn.Listen(ctx, hub); err != nil {
				log.Error("redis unlock listener stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Notifications.Telegram {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramAuth.TelegramBotToken)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tn)
	}

	return notifiers, nil
}

func newRouter(cfg *Config, svc *service.Service, hub *notify.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.TelegramBotToken, cfg.TelegramAuth.DebugMode)
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	a := router.Group("/api/v1")
	api.NewStreakRoutes(a, svc.StreakService, telegramAuth, limiter)
	api.NewAchievementRoutes(a, svc.AchievementService, telegramAuth, limiter)
	api.NewNotificationRoutes(a, svc.NotificationService, hub, cfg.Notifications.PollInterval, telegramAuth)

	return router
}

func newService(repo *repository.Repository, policy service.StreakPolicy, notifiers ...service.UnlockNotifier) (*service.Service, error) {
	achievements := service.NewAchievementService(repo, repo, notifiers...)
	streaks, err := service.NewStreakService(repo, policy, achievements)
	if err != nil {
		return nil, err
	}
	return service.NewService(streaks, achievements, service.NewNotificationService(repo)), nil
}

func serve(ctx context.Context, cfg *Config) error {
	log := logger.Logger()

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	hub := notify.NewHub()
	notifiers, err := buildNotifiers(ctx, cfg, hub)
	if err != nil {
		return err
	}

	svc, err := newService(repo, cfg.Streak, notifiers...)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: newRouter(cfg, svc, hub),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
