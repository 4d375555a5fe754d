package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"providerhub/models"
)

func TestMemoryRepoListOrder(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for _, b := range []models.Booking{
		{ID: "c", CreatedAt: t0.Add(time.Minute)},
		{ID: "b", CreatedAt: t0},
		{ID: "a", CreatedAt: t0},
	} {
		b := b
		if err := repo.Insert(ctx, &b); err != nil {
			t.Fatalf("insert %s: %v", b.ID, err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Insertion order wins over createdAt and id.
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
		if got[i].Seq != int64(i+1) {
			t.Fatalf("%s: seq %d, want %d", id, got[i].Seq, i+1)
		}
	}
}

func TestMemoryRepoReplaceIfVersion(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	b := &models.Booking{ID: "b1", Version: 1}
	if err := repo.Insert(ctx, b); err != nil {
		t.Fatal(err)
	}

	next := b.Clone()
	next.AdminID = "admin-1"
	next.Version = 2
	if err := repo.ReplaceIfVersion(ctx, next, 1); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	stale := b.Clone()
	stale.AdminID = "admin-2"
	stale.Version = 2
	if err := repo.ReplaceIfVersion(ctx, stale, 1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	missing := &models.Booking{ID: "nope", Version: 2}
	if err := repo.ReplaceIfVersion(ctx, missing, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	stored, _ := repo.GetByID(ctx, "b1")
	if stored.AdminID != "admin-1" {
		t.Fatalf("stored admin = %q", stored.AdminID)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	_ = repo.Insert(ctx, &models.Booking{ID: "b1", Version: 1})

	got, _ := repo.GetByID(ctx, "b1")
	got.CancelledBy = append(got.CancelledBy, models.CancellationRecord{Reason: "x"})

	again, _ := repo.GetByID(ctx, "b1")
	if again.IsCancelled() {
		t.Fatal("mutating a returned booking leaked into the store")
	}
}
