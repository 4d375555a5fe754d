package tasks

import (
	"testing"
	"time"

	"providerhub/models"
)

func TestLifecycleTaskRoundTrip(t *testing.T) {
	event := models.LifecycleEvent{
		ID:         "evt-9",
		Type:       models.EventBookingCancelled,
		BookingID:  "b9",
		ActorID:    "admin-1",
		Reason:     "customer asked",
		State:      models.StateCancelled,
		OccurredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	task, opts, err := NewLifecycleTask(event)
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TypeBookingLifecycle {
		t.Fatalf("type = %s", task.Type())
	}
	if len(opts) == 0 {
		t.Fatal("expected enqueue options")
	}

	got, err := ParseLifecycleTask(task)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != event.ID || got.Reason != event.Reason || !got.OccurredAt.Equal(event.OccurredAt) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
