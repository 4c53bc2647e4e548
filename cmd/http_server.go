package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	eventsAMQP "github.com/frahmantamala/expense-tracker/internal/core/events/amqp"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/frahmantamala/expense-tracker/internal/web"
	"github.com/frahmantamala/expense-tracker/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the expense API and the web page`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config         *internal.Config
	Backend        *storage.Backend
	EventBus       *events.EventBus
	AMQP           *eventsAMQP.Client
	ExpenseService *expense.Service
	Router         *chi.Mux
	Logger         *slog.Logger
}

func (d *Dependencies) Close() {
	if d.AMQP != nil {
		if err := d.AMQP.Close(); err != nil {
			d.Logger.Error("AMQP close error", "error", err)
		}
	}
	if d.Backend != nil {
		if err := d.Backend.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("Failed to set up routes", "error", err)
		return
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Backend.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := swagger.LoadSpec(ctx, api.OpenAPI); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	base := transport.NewBaseHandler(deps.Logger)
	webHandler, err := web.NewHandler(base, deps.ExpenseService)
	if err != nil {
		return fmt.Errorf("failed to load web templates: %w", err)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:   rest.NewHealthHandler(deps.Backend.Driver, deps.Backend),
		Expense:  expense.NewHandler(base, deps.ExpenseService),
		Category: category.NewHandler(base, category.NewService(deps.Logger)),
		Web:      webHandler,
	}, deps.Config.Server.AllowedOrigins, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	backend, err := storage.Open(config.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		Backend:  backend,
		EventBus: events.NewEventBus(log),
		Router:   chi.NewRouter(),
		Logger:   log,
	}

	if config.Events.Enabled() {
		client, err := initEventForwarder(config.Events, deps.EventBus, log, events.ExpenseEventTypes...)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.AMQP = client
	}

	deps.ExpenseService = expense.NewService(backend.Repository, deps.EventBus, log,
		expense.WithTimeout(config.Database.QueryTimeout))

	return deps, nil
}

// initEventForwarder connects to RabbitMQ and forwards the given event types published on bus.
func initEventForwarder(cfg internal.EventsConfig, bus *events.EventBus, log *slog.Logger, eventTypes ...string) (*eventsAMQP.Client, error) {
	client, err := eventsAMQP.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	forwarder, err := eventsAMQP.NewForwarder(client.Channel, cfg.Exchange, log)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set up event forwarder: %w", err)
	}
	forwarder.Register(bus, eventTypes...)

	log.Info("forwarding events", "exchange", cfg.Exchange, "event_types", eventTypes)
	return client, nil
}
