package chatRepo

import (
	"context"
	"fmt"
	"sync"

	"providerhub/models"
)

// MemoryLog keeps channel logs in process.
type MemoryLog struct {
	mu       sync.RWMutex
	seq      int64
	channels map[string][]models.ChatMessage
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{channels: make(map[string][]models.ChatMessage)}
}

func (l *MemoryLog) Append(_ context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	msg.ID = fmt.Sprintf("%020d", l.seq)
	l.channels[msg.ChannelKey] = append(l.channels[msg.ChannelKey], msg)
	return msg, nil
}

func (l *MemoryLog) List(_ context.Context, channelKey string) ([]models.ChatMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	msgs := l.channels[channelKey]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
