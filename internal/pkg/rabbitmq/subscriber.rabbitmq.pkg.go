package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mpesa-gateway/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cast"
)

type MessageHandler func(ctx context.Context, msg *amqp.Delivery) error

type RetryStrategy string

const (
	FixedRetry       RetryStrategy = "fixed"
	ExponentialRetry RetryStrategy = "exponential"
	LinearRetry      RetryStrategy = "linear"
)

const retryCountHeader = "x-retry-count"

type SubscribeOptions struct {
	QueueOpts        *QueueConfig
	QueueName        string
	ConsumerName     string
	WorkerCount      int
	PrefetchCount    int
	ProcessTimeout   time.Duration
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryStrategy    RetryStrategy
	BaseRetryDelay   time.Duration
	MaxRetryDelay    time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:        queueName,
		ConsumerName:     queueName,
		WorkerCount:      3,
		PrefetchCount:    10,
		ProcessTimeout:   time.Minute,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   "fail:" + queueName,
		RetryStrategy:    FixedRetry,
		BaseRetryDelay:   5 * time.Second,
		MaxRetryDelay:    10 * time.Minute,
	}
}

// RetryDelay is the wait before redelivery attempt n (1-based).
func (o *SubscribeOptions) RetryDelay(n int) time.Duration {
	var delay time.Duration

	switch o.RetryStrategy {
	case FixedRetry:
		delay = o.BaseRetryDelay
	case LinearRetry:
		delay = o.BaseRetryDelay * time.Duration(n)
	default:
		delay = o.BaseRetryDelay
		for i := 0; i < n; i++ {
			delay *= 2
			if o.MaxRetryDelay > 0 && delay >= o.MaxRetryDelay {
				break
			}
		}
	}

	if o.MaxRetryDelay > 0 && delay > o.MaxRetryDelay {
		delay = o.MaxRetryDelay
	}
	return delay
}

type Subscriber struct {
	connManager *ConnectionManager
	channels    []*ChannelManager
	handler     MessageHandler
	opts        *SubscribeOptions
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   atomic.Bool
	pool        *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(opts.WorkerCount*opts.PrefetchCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Message processor panic: %v", i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create subscriber pool: %w", err)
	}

	sub := &Subscriber{
		connManager: connManager,
		channels:    make([]*ChannelManager, opts.WorkerCount),
		handler:     handler,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		pool:        pool,
	}
	for i := range sub.channels {
		sub.channels[i] = NewChannelManager(ctx, connManager)
	}

	return sub, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber is already running")
	}
	for i := 0; i < s.opts.WorkerCount; i++ {
		s.wg.Add(1)
		go s.runWorker(i)
	}
	logger.Info.Printf("Subscribed to %s with %d workers", s.opts.QueueName, s.opts.WorkerCount)
	return nil
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	s.pool.Release()

	for _, ch := range s.channels {
		_ = ch.Close()
	}
	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	defer s.wg.Done()

	backoff := time.Second
	for s.isRunning.Load() {
		if err := s.consume(workerID); err != nil {
			logger.Warning.Printf("Worker %d consume error: %v", workerID, err)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		if s.ctx.Err() != nil {
			return
		}
		backoff = time.Second
	}
}

func (s *Subscriber) consume(workerID int) error {
	ch, err := s.channels[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	cfg := s.opts.QueueOpts
	if cfg == nil {
		cfg = DefaultQueueConfig()
	}
	q, err := ch.QueueDeclare(s.opts.QueueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	consumerName := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(s.ctx, q.Name, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %d: %w", workerID, err)
	}

	for msg := range msgs {
		delivery := msg
		if err := s.pool.Submit(func() {
			if err := s.processMessage(workerID, &delivery); err != nil {
				logger.Error.Printf("Worker %d failed to process message %s: %v", workerID, delivery.MessageId, err)
			}
		}); err != nil {
			logger.Error.Printf("Worker %d failed to submit to pool: %v", workerID, err)
			_ = delivery.Nack(false, true)
		}
	}

	return nil
}

func (s *Subscriber) processMessage(workerID int, msg *amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ProcessTimeout)
	defer cancel()

	err := s.handler(ctx, msg)
	if err == nil {
		return msg.Ack(false)
	}

	attempt := RetryCount(msg.Headers)
	if attempt >= s.opts.MaxRetryAttempts {
		if s.opts.EnableDeadLetter {
			return s.moveToDeadLetter(workerID, msg, err)
		}
		return msg.Reject(false)
	}

	if retryErr := s.republishWithDelay(workerID, msg, attempt+1); retryErr != nil {
		return fmt.Errorf("failed to schedule retry: %w", retryErr)
	}
	return fmt.Errorf("handler error on attempt %d: %w", attempt+1, err)
}

// RetryCount reads the retry counter from delivery headers.
func RetryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	count, err := cast.ToIntE(headers[retryCountHeader])
	if err != nil {
		return 0
	}
	return count
}

func republish(msg *amqp.Delivery) amqp.Publishing {
	return amqp.Publishing{
		Headers:         msg.Headers,
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Priority:        msg.Priority,
		CorrelationId:   msg.CorrelationId,
		MessageId:       msg.MessageId,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		AppId:           msg.AppId,
		Body:            msg.Body,
	}
}

func (s *Subscriber) republishWithDelay(workerID int, msg *amqp.Delivery, retryCount int) error {
	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers[retryCountHeader] = int32(retryCount)
	publishing := republish(msg)
	delay := s.opts.RetryDelay(retryCount)

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge original message: %w", err)
	}
	logger.Info.Printf("Retrying message %s in %v (attempt %d)", msg.MessageId, delay, retryCount)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			return
		}

		ch, err := s.channels[workerID].GetChannel()
		if err != nil {
			logger.Error.Printf("Failed to get channel after delay: %v", err)
			return
		}
		if err := ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, publishing); err != nil {
			logger.Error.Printf("Failed to republish message after delay: %v", err)
		}
	}()

	return nil
}

func (s *Subscriber) moveToDeadLetter(workerID int, msg *amqp.Delivery, cause error) error {
	ch, err := s.channels[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel for dead letter: %w", err)
	}

	if _, err := ch.QueueDeclare(s.opts.DeadLetterName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}

	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-death-reason"] = cause.Error()
	msg.Headers["x-death-time"] = time.Now().Format(time.RFC3339)
	msg.Headers["x-death-queue"] = s.opts.QueueName

	if err := ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, republish(msg)); err != nil {
		return fmt.Errorf("failed to publish to dead letter queue: %w", err)
	}
	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	logger.Warning.Printf("Message %s moved to %s after %d retries", msg.MessageId, s.opts.DeadLetterName, RetryCount(msg.Headers))
	return nil
}
