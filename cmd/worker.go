package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
	eventsAMQP "github.com/frahmantamala/expense-tracker/internal/core/events/amqp"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that consume events published by the server.`,
}

// Event worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start expense event worker",
	Long:  `Consume expense events from the configured RabbitMQ exchange and log them`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

func startEventWorker() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	if !cfg.Events.Enabled() {
		logger.Error("events.amqp_url is not configured")
		os.Exit(1)
	}

	client, err := eventsAMQP.Dial(cfg.Events.AMQPURL)
	if err != nil {
		logger.Error("failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	consumer := eventsAMQP.NewConsumer(client.Channel, cfg.Events.Exchange, cfg.Events.Queue, logger)
	if err := consumer.Setup(events.ExpenseEventTypes...); err != nil {
		logger.Error("failed to set up consumer", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("event worker is running. Press Ctrl+C to stop.",
		"exchange", cfg.Events.Exchange,
		"queue", cfg.Events.Queue)

	err = consumer.Consume(ctx, func(ctx context.Context, env eventsAMQP.Envelope) error {
		logger.Info("received expense event",
			"event_id", env.ID,
			"event_type", env.Type,
			"occurred_at", env.Timestamp,
			"payload", env.Data)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("event worker stopped", "error", err)
		return
	}

	logger.Info("event worker shutdown complete")
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
