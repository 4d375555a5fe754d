package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	chatRepo "providerhub/database/repository/chat"
	"providerhub/models"
	"providerhub/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("providerhub/services/chat")

// Manager owns chat channels: it appends messages to the log and keeps
// subscribers supplied with full snapshots of a channel's history.
type Manager struct {
	Log      chatRepo.MessageLog
	Notifier Notifier
	// Clock defaults to time.Now.
	Clock func() time.Time
	// ResyncInterval re-reads the log on a timer so subscribers recover
	// from missed signals and outages. Zero disables it.
	ResyncInterval time.Duration

	mu     sync.Mutex
	lastTS int64
}

func NewManager(log chatRepo.MessageLog, notifier Notifier, resync time.Duration) *Manager {
	return &Manager{Log: log, Notifier: notifier, ResyncInterval: resync}
}

func (m *Manager) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

// nextTimestamp returns max(now, last+1) in milliseconds.
func (m *Manager) nextTimestamp() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.now().UnixMilli()
	if ts <= m.lastTS {
		ts = m.lastTS + 1
	}
	m.lastTS = ts
	return ts
}

// Send appends a message to the channel and wakes its subscribers.
func (m *Manager) Send(ctx context.Context, channelKey, senderID, text string) (models.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "chat.Send")
	defer span.End()
	span.SetAttributes(attribute.String("chat.channel", channelKey))

	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if strings.TrimSpace(channelKey) == "" || strings.TrimSpace(senderID) == "" {
		return models.ChatMessage{}, ErrInvalidChannel
	}

	stored, err := m.Log.Append(ctx, models.ChatMessage{
		ChannelKey: channelKey,
		SenderID:   senderID,
		Text:       text,
		Timestamp:  m.nextTimestamp(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return models.ChatMessage{}, fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}

	if err := m.Notifier.Notify(ctx, channelKey); err != nil {
		// Subscribers still catch up on their next resync tick.
		utils.GetLogger().Warn("chat notify failed",
			zap.String("channel", channelKey), zap.Error(err))
	}
	return stored, nil
}

// History reads the channel once and returns its ordered messages.
func (m *Manager) History(ctx context.Context, channelKey string) ([]models.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "chat.History")
	defer span.End()

	if strings.TrimSpace(channelKey) == "" {
		return nil, ErrInvalidChannel
	}
	msgs, err := m.Log.List(ctx, channelKey)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}
	return normalize(msgs), nil
}

// Subscribe streams snapshots of the channel until ctx is cancelled, at
// which point the returned channel is closed. A snapshot is sent right
// away, after every change signal and on each resync tick. A slow reader
// only ever sees the most recent snapshot.
func (m *Manager) Subscribe(ctx context.Context, channelKey string) (<-chan models.ChatSnapshot, error) {
	if strings.TrimSpace(channelKey) == "" {
		return nil, ErrInvalidChannel
	}

	wake, err := m.Notifier.Watch(ctx, channelKey)
	if err != nil {
		utils.GetLogger().Warn("chat watch failed, relying on resync",
			zap.String("channel", channelKey), zap.Error(err))
		wake = nil
	}

	out := make(chan models.ChatSnapshot, 1)
	go m.run(ctx, channelKey, wake, out)
	return out, nil
}

func (m *Manager) run(ctx context.Context, channelKey string, wake <-chan struct{}, out chan models.ChatSnapshot) {
	defer close(out)

	var tick <-chan time.Time
	if m.ResyncInterval > 0 {
		t := time.NewTicker(m.ResyncInterval)
		defer t.Stop()
		tick = t.C
	}

	var lastGood []models.ChatMessage
	emit := func() {
		snap := models.ChatSnapshot{ChannelKey: channelKey}
		msgs, err := m.Log.List(ctx, channelKey)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			utils.GetLogger().Warn("chat log unavailable",
				zap.String("channel", channelKey), zap.Error(err))
			snap.Unavailable = true
			snap.Messages = lastGood
		} else {
			lastGood = normalize(msgs)
			snap.Messages = lastGood
		}
		deliver(out, snap)
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			emit()
		case <-tick:
			emit()
		}
	}
}

// deliver replaces any snapshot the reader has not picked up yet. Only the
// subscription goroutine sends on out, so the send after draining cannot
// block.
func deliver(out chan models.ChatSnapshot, snap models.ChatSnapshot) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- snap
}

// normalize drops repeated ids and orders by timestamp, keeping arrival
// order between equal timestamps.
func normalize(msgs []models.ChatMessage) []models.ChatMessage {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]models.ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		seen[msg.ID] = struct{}{}
		out = append(out, msg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
