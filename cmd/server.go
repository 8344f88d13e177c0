package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "taskdesk.com/taskdesk/internal/configs"
	httpapi "taskdesk.com/taskdesk/internal/http"
	"taskdesk.com/taskdesk/internal/idempotency"
	"taskdesk.com/taskdesk/internal/outbox"
	repository "taskdesk.com/taskdesk/internal/repositories"
	"taskdesk.com/taskdesk/internal/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  "Starts the task lifecycle HTTP API and the outbox dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		database := config.New(cfg.DatabaseDSN)

		taskRepo := repository.NewTaskRepository(database)
		idemStore := idempotency.NewRedisStore(redisClient, cfg.IdempotencyKeyPrefix)

		transport := outbox.NewRedisTransport(redisClient, cfg.OutboxStreamKey, cfg.OutboxCheckpointKey)
		dispatcher := services.NewDispatcherService(
			taskRepo,
			transport,
			cfg.OutboxBatchSize,
			cfg.OutboxPollIntervalSeconds,
		)

		taskService := services.NewTaskService(taskRepo, idemStore)

		e := echo.New()

		handler := httpapi.NewHandler(taskService)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		dispatcher.Shutdown(ctx)

		log.Println("HTTP server and outbox dispatcher shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
