package chat

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisNotifier fans change signals out through Redis Pub/Sub so that
// subscribers on other instances see writes made here.
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

func NewRedisNotifier(client *redis.Client, prefix string) *RedisNotifier {
	return &RedisNotifier{client: client, prefix: prefix}
}

func (n *RedisNotifier) Notify(ctx context.Context, channelKey string) error {
	return n.client.Publish(ctx, n.prefix+channelKey, "1").Err()
}

func (n *RedisNotifier) Watch(ctx context.Context, channelKey string) (<-chan struct{}, error) {
	ps := n.client.Subscribe(ctx, n.prefix+channelKey)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channelKey, err)
	}

	msgs := ps.Channel()
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				signal(out)
			}
		}
	}()
	return out, nil
}
