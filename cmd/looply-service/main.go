package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/looply/looply-backend/internal/app"
	"github.com/looply/looply-backend/internal/notify"
	"github.com/looply/looply-backend/internal/seed"
	"github.com/looply/looply-backend/internal/server"
	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

const serviceName = "looply-service"

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Str("storage", cfg.Storage.Driver).Msg("starting Looply service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open storage
	store, err := kvstore.Open(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	health := map[string]server.HealthCheck{
		"storage": store.Health,
		"rabbitmq": func(context.Context) map[string]string {
			return map[string]string{"status": "disabled"}
		},
	}

	// Connect to RabbitMQ when enabled
	var (
		rmq       *messaging.RabbitMQ
		publisher messaging.EventPublisher = messaging.NopPublisher{}
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = messaging.NewPublisher(rmq, messaging.ExchangeEOD, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		health["rabbitmq"] = func(context.Context) map[string]string { return rmq.Health() }
	}

	// Wire repositories, services and handlers
	a := app.New(cfg, store, publisher, log)

	if cfg.Server.SeedDemo {
		res, err := seed.NewSeeder(a.Users, a.Companies, a.Employees, a.Reports, log).Seed(ctx, seed.Options{EmployeeMode: true})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
		log.Info().
			Str("employer", seed.EmployerEmail).
			Str("employee_code", seed.DemoCode).
			Int("reports", res.Reports).
			Msg("demo data loaded")
	}

	// Notifications
	notifier := notify.NewNotifier(a.Companies, a.Employees, notify.NewSender(&cfg.Mail, log), log.WithComponent("notify"))

	if rmq != nil {
		consumer, err := notify.NewReportConsumer(rmq, notifier, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create report consumer")
		}
		if err := consumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start report consumer")
		}
	}

	if cfg.Reminder.Enabled {
		reminders, err := notify.NewReminderScheduler(a.Companies, a.EOD, notifier, cfg.Reminder.At, cfg.Reminder.Interval, log.WithComponent("reminders"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid reminder configuration")
		}
		reminders.Start(ctx)
		defer reminders.Stop()
	}

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Router(cfg, health, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers and the scheduler
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
