package chatRepo

import (
	"context"
	"fmt"
	"strconv"

	"providerhub/models"

	"github.com/go-redis/redis/v8"
)

// RedisStreamLog stores each channel as a Redis stream. Stream entry IDs
// are assigned by Redis and give arrival order.
type RedisStreamLog struct {
	client *redis.Client
	prefix string
}

func NewRedisStreamLog(client *redis.Client, prefix string) *RedisStreamLog {
	return &RedisStreamLog{client: client, prefix: prefix}
}

func (l *RedisStreamLog) streamKey(channelKey string) string {
	return l.prefix + channelKey
}

func (l *RedisStreamLog) Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	id, err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: l.streamKey(msg.ChannelKey),
		Values: map[string]interface{}{
			"sender":    msg.SenderID,
			"text":      msg.Text,
			"timestamp": msg.Timestamp,
		},
	}).Result()
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("xadd %s: %w", msg.ChannelKey, err)
	}
	msg.ID = id
	return msg, nil
}

func (l *RedisStreamLog) List(ctx context.Context, channelKey string) ([]models.ChatMessage, error) {
	entries, err := l.client.XRange(ctx, l.streamKey(channelKey), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("xrange %s: %w", channelKey, err)
	}
	out := make([]models.ChatMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.ChatMessage{
			ID:         e.ID,
			ChannelKey: channelKey,
			SenderID:   stringValue(e.Values["sender"]),
			Text:       stringValue(e.Values["text"]),
			Timestamp:  int64Value(e.Values["timestamp"]),
		})
	}
	return out, nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func int64Value(v interface{}) int64 {
	switch t := v.(type) {
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	case int64:
		return t
	}
	return 0
}
