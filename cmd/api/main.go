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

	"github.com/radiusart/mint-actions/internal/action"
	"github.com/radiusart/mint-actions/internal/api"
	"github.com/radiusart/mint-actions/internal/commerce"
	"github.com/radiusart/mint-actions/internal/config"
	"github.com/radiusart/mint-actions/internal/events"
	"github.com/radiusart/mint-actions/internal/log"
	"github.com/radiusart/mint-actions/internal/metrics"
	"github.com/radiusart/mint-actions/internal/onchain"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting mint action server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"network", cfg.Solana.Network,
		"rpc", cfg.Solana.RPCURL,
		"commerce", cfg.Commerce.BaseURL,
	)
	for _, w := range cfg.Warnings() {
		logger.Warnw("Configuration incomplete", "problem", w)
	}

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup("mint-actions")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	commerceClient := commerce.NewClient(cfg.Commerce, logger, commerce.WithRecorder(metricsObj))

	sinks := []action.Notifier{commerceClient}
	publisher := events.NewKafkaPublisher(cfg.Events, cfg.Solana.Network)
	if publisher != nil {
		sinks = append(sinks, publisher)
		logger.Infow("Kafka event sink enabled",
			"brokers", cfg.Events.KafkaBrokers,
			"topic", cfg.Events.KafkaTopic,
		)
	}

	dispatcher := action.NewDispatcher(logger, sinks,
		action.WithNotifyTimeout(cfg.Commerce.NotifyTimeout),
		action.WithNotificationRecorder(metricsObj),
	)

	txBuilder := onchain.NewTransactionBuilder(onchain.NewRPCAssembler(cfg.Solana.RPCURL))
	responder := action.NewResponder(commerceClient, txBuilder, dispatcher, cfg.Solana.ReceiverAddress, logger,
		action.WithNetwork(cfg.Solana.Network),
		action.WithTransactionRecorder(metricsObj),
	)

	// Setup API handler and middleware
	handler := api.NewHandler(responder, cfg, logger)
	middleware := api.NewMiddleware(logger, metricsObj)
	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins)

	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Commerce.Timeout + 20*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Server startup failed", "error", err)
		}
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		// Notifications outlive their requests; give them the rest of the budget
		if err := dispatcher.Wait(ctx); err != nil {
			logger.Warnw("Abandoned in-flight mint notifications", "error", err)
		}
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warnw("Failed to close Kafka writer", "error", err)
			}
		}

		logger.Infow("Server stopped")
	}
}
