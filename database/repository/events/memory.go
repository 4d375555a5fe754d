package eventRepo

import (
	"context"
	"sync"

	"providerhub/models"
)

type MemoryEventRepo struct {
	mu     sync.RWMutex
	seen   map[string]bool
	events []models.LifecycleEvent
}

func NewMemoryEventRepo() *MemoryEventRepo {
	return &MemoryEventRepo{seen: make(map[string]bool)}
}

func (r *MemoryEventRepo) Append(_ context.Context, e models.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[e.ID] {
		return nil
	}
	r.seen[e.ID] = true
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryEventRepo) ListByBooking(_ context.Context, bookingID string) ([]models.LifecycleEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.LifecycleEvent{}
	for _, e := range r.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}
