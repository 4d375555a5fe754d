package chat

import (
	"context"
	"sync"
)

// Notifier carries "channel changed" signals between writers and
// subscribers. Signals carry no payload and may be coalesced.
type Notifier interface {
	Notify(ctx context.Context, channelKey string) error
	// Watch returns a channel that receives a value after changes to
	// channelKey. It is closed once ctx is done.
	Watch(ctx context.Context, channelKey string) (<-chan struct{}, error)
}

// LocalBroker is an in-process Notifier.
type LocalBroker struct {
	mu       sync.Mutex
	watchers map[string]map[chan struct{}]struct{}
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{watchers: make(map[string]map[chan struct{}]struct{})}
}

func (b *LocalBroker) Notify(_ context.Context, channelKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.watchers[channelKey] {
		signal(ch)
	}
	return nil
}

func (b *LocalBroker) Watch(ctx context.Context, channelKey string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	set, ok := b.watchers[channelKey]
	if !ok {
		set = make(map[chan struct{}]struct{})
		b.watchers[channelKey] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(set, ch)
		if len(set) == 0 {
			delete(b.watchers, channelKey)
		}
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// signal does a non-blocking send; a pending signal already covers this one.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
