package serverApp

import (
	"context"
	"fmt"
	"sync"

	"mpesa-gateway/internal/pkg/logger"
	"mpesa-gateway/internal/pkg/rabbitmq"
	mpesaService "mpesa-gateway/internal/service/mpesa"
)

// InitWorker subscribes the callback consumer to queue. The subscriber stops
// when ctx is cancelled.
func InitWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	rb *rabbitmq.ConnectionManager,
	service mpesaService.IService,
	queue string,
) error {
	opts := rabbitmq.DefaultSubscribeOptions(queue)
	opts.RetryStrategy = rabbitmq.ExponentialRetry

	sub, err := rabbitmq.NewSubscriber(ctx, rb, service.ConsumeEvent, opts)
	if err != nil {
		return fmt.Errorf("failed to create callback subscriber: %w", err)
	}
	if err := sub.Start(); err != nil {
		return fmt.Errorf("failed to start callback subscriber: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := sub.Stop(); err != nil {
			logger.Error.Printf("Failed to stop callback subscriber: %v", err)
		}
	}()

	return nil
}
