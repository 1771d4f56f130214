package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mpesa-gateway/internal/pkg/logger"

	_redis "github.com/redis/go-redis/v9"
)

func Setup(ctx context.Context, config *Config) (*Client, error) {
	clientCtx, cancel := context.WithCancel(ctx)

	r := &Client{
		cancel: cancel,
		ctx:    clientCtx,
		config: config,
	}

	if err := r.connect(); err != nil {
		cancel()
		logger.Error.Println(err)
		return nil, err
	}

	go r.watch()

	return r, nil
}

func (r *Client) connect() error {
	if r.Client != nil {
		_ = r.Client.Close()
	}
	r.Client = _redis.NewClient(&_redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Username: r.config.Username,
		Password: r.config.Password,
		PoolSize: r.config.PoolSize,
	})

	if err := r.Client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// watch pings once a second and rebuilds the client when the server stops
// answering.
func (r *Client) watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			logger.Info.Println("Redis watcher shutting down...")
			return
		case <-ticker.C:
			if err := r.Ping(); err == nil {
				continue
			}
			r.reconnect()
		}
	}
}

func (r *Client) reconnect() {
	for attempt := 1; ; attempt++ {
		logger.Warning.Printf("Redis reconnect attempt #%d...", attempt)
		err := r.connect()
		if err == nil {
			logger.Info.Println("Reconnected to Redis.")
			return
		}
		logger.Warning.Printf("Redis reconnect attempt failed: %v", err)

		select {
		case <-r.ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
}

func (r *Client) Ping() error {
	return r.Client.Ping(r.ctx).Err()
}

func (r *Client) Close() error {
	r.cancel()
	return r.Client.Close()
}

// Set stores value JSON encoded.
func (r *Client) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.Client.Set(r.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get returns the raw stored value, or "" when the key does not exist.
func (r *Client) Get(key string) (string, error) {
	result, err := r.Client.Get(r.ctx, key).Result()
	if errors.Is(err, NilType) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) Del(key string) error {
	if err := r.Client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
