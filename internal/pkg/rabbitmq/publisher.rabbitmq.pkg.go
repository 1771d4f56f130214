package rabbitmq

import (
	"context"
	"fmt"
	"sync"
)

type IPublisher interface {
	Publish(ctx context.Context, queueName string, msg *Message) error
}

type Publisher struct {
	channels *ChannelManager
	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("rabbitmq connection manager is required")
	}
	return &Publisher{
		channels: NewChannelManager(ctx, connManager),
		declared: make(map[string]bool),
	}, nil
}

// Publish sends msg to the durable queue queueName through the default
// exchange, declaring the queue on first use.
func (p *Publisher) Publish(ctx context.Context, queueName string, msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channels.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if !p.declared[queueName] {
		cfg := DefaultQueueConfig()
		if _, err := ch.QueueDeclare(queueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		p.declared[queueName] = true
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, *msg.GeneratePayload()); err != nil {
		// the channel may have been replaced; declare again next time
		delete(p.declared, queueName)
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.channels.Close()
}

var _ IPublisher = (*Publisher)(nil)
