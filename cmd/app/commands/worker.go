package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/helpmatch/internal/app"
	"github.com/allisson/helpmatch/internal/broker"
	"github.com/allisson/helpmatch/internal/config"
	matchingUseCase "github.com/allisson/helpmatch/internal/matching/usecase"
)

// QueueConsumer registers a handler for a queue.
type QueueConsumer interface {
	Consume(ctx context.Context, queue string, handler broker.Handler) error
}

// SubscribeMatching wires the matching use case to the request and offer queues.
func SubscribeMatching(
	ctx context.Context,
	consumer QueueConsumer,
	uc matchingUseCase.MatchingUseCase,
	requestQueue, offerQueue string,
) error {
	if err := consumer.Consume(ctx, requestQueue, matchingUseCase.RequestCreatedHandler(uc)); err != nil {
		return fmt.Errorf("failed to consume %s: %w", requestQueue, err)
	}
	if err := consumer.Consume(ctx, offerQueue, matchingUseCase.OfferCreatedHandler(uc)); err != nil {
		return fmt.Errorf("failed to consume %s: %w", offerQueue, err)
	}
	return nil
}

// RunWorker consumes help request events and matches helpers until SIGINT/SIGTERM.
// Subscriptions deferred by a broker outage start on the next successful connect.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer, err := container.Consumer()
	if err != nil {
		return fmt.Errorf("failed to initialize consumer: %w", err)
	}

	uc, err := container.MatchingUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize matching use case: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if metricsServer != nil {
		group.Go(func() error {
			return metricsServer.Start(groupCtx)
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping worker")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return container.Shutdown(shutdownCtx)
	})

	if err := SubscribeMatching(ctx, consumer, uc, cfg.QueueRequestCreated, cfg.QueueOfferCreated); err != nil {
		cancel()
		_ = group.Wait()
		return err
	}

	logger.Info("worker subscribed",
		slog.String("request_queue", cfg.QueueRequestCreated),
		slog.String("offer_queue", cfg.QueueOfferCreated),
	)

	return group.Wait()
}
