package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/attachments"
	"task-manager.com/task-manager/internal/auth"
	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/notify"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task management HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.NewDatabaseClient(cfg.DatabaseDSN)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		taskRepo := repository.NewTaskRepository(database, cfg.PageSize)
		userRepo := repository.NewUserRepository(database)

		store := attachments.NewDiskStore(database, cfg.StorageDir, cfg.PublicURL)

		mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		notifier := notify.NewNotifier(mailer, cfg.Locale)

		tokenStore := auth.NewRedisTokenStore(
			redisClient,
			cfg.RedisTokenPrefix,
			time.Duration(cfg.TokenTTLSeconds)*time.Second,
		)

		taskService := services.NewTaskService(taskRepo, userRepo, store, notifier)
		authService := services.NewAuthService(userRepo, tokenStore)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		e.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))
		e.Static("/storage/attachments", cfg.StorageDir)

		httpapi.Register(
			e,
			httpapi.NewTaskHandler(taskService),
			httpapi.NewAuthHandler(authService),
			middleware.BearerAuth(authService),
		)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		echoCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		_ = e.Shutdown(echoCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
