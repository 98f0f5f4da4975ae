package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/mailer"
	"github.com/frahmantamala/wishlist-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background work like invitation mail delivery.`,
}

// Mail worker command
var mailWorkerCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Start mail delivery worker pool",
	Long:  `Start the mail worker pool for delivering invitation emails`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	apiURL       string
	apiKey       string
)

func startMailWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	// Use command line flags if provided, otherwise use config values
	mailConfig := mailer.Config{
		APIURL:        getStringFlag(apiURL, config.Mailer.APIURL),
		APIKey:        getStringFlag(apiKey, config.Mailer.APIKey),
		FromAddress:   config.Mailer.FromAddress,
		InviteBaseURL: config.Mailer.InviteBaseURL,
		SendTimeout:   config.Mailer.SendTimeout,
		MaxWorkers:    getIntFlag(maxWorkers, config.Mailer.MaxWorkers),
		JobQueueSize:  getIntFlag(jobQueueSize, config.Mailer.QueueSize),
	}

	logger.Info("starting mail worker",
		"max_workers", mailConfig.MaxWorkers,
		"job_queue_size", mailConfig.JobQueueSize,
		"api_url", mailConfig.APIURL,
		"from_address", mailConfig.FromAddress)

	// create mail client with its worker pool
	client := mailer.NewClient(mailConfig, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("mail worker is running. Press Ctrl+C to stop.")

	// wait for shutdown signal
	sig := <-sigChan
	logger.Info("received signal, shutting down mail worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		client.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Info("mail worker pool shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		logger.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	mailWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	mailWorkerCmd.Flags().StringVar(&apiURL, "api-url", "", "Mail provider API URL (overrides config)")
	mailWorkerCmd.Flags().StringVar(&apiKey, "api-key", "", "Mail provider API key (overrides config)")

	workerCmd.AddCommand(mailWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
