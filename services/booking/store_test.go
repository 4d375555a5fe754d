package booking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bookingRepo "providerhub/database/repository/booking"
	"providerhub/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.LifecycleEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, seed ...models.Booking) (*DefaultBookingStore, *recordingPublisher) {
	t.Helper()
	repo := bookingRepo.NewMemoryBookingRepo()
	for i := range seed {
		b := seed[i]
		if b.Version == 0 {
			b.Version = 1
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = testNow.Add(time.Duration(i) * time.Minute)
		}
		if err := repo.Insert(context.Background(), &b); err != nil {
			t.Fatalf("seed %s: %v", b.ID, err)
		}
	}
	pub := &recordingPublisher{}
	store := NewDefaultBookingStore(repo, pub)
	store.Clock = func() time.Time { return testNow }
	return store, pub
}

func TestAssignThenConfirmScenario(t *testing.T) {
	store, pub := newTestStore(t, models.Booking{ID: "B1", UserID: "U1", CancelledBy: []models.CancellationRecord{}})
	ctx := context.Background()

	assigned, err := store.Assign(ctx, "B1", "A1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.AdminID != "A1" || assigned.ConfirmBooking {
		t.Fatalf("after assign: %+v", assigned)
	}

	confirmed, err := store.Confirm(ctx, "B1", "A1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.AdminID != "A1" || !confirmed.ConfirmBooking {
		t.Fatalf("after confirm: %+v", confirmed)
	}
	if got := DeriveStatus(confirmed, "A1"); got != models.StatusConfirmed {
		t.Fatalf("A1 sees %s", got)
	}
	if got := DeriveStatus(confirmed, "A2"); got != models.StatusClosed {
		t.Fatalf("A2 sees %s", got)
	}
	if confirmed.Version != 3 {
		t.Fatalf("version = %d, want 3", confirmed.Version)
	}

	cancelled, err := store.Cancel(ctx, "B1", "A1", "  no longer available ")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(cancelled.CancelledBy) != 1 {
		t.Fatalf("cancelledBy = %+v", cancelled.CancelledBy)
	}
	rec := cancelled.CancelledBy[0]
	if rec.ActorID != "A1" || rec.Reason != "no longer available" || !rec.Timestamp.Equal(testNow) {
		t.Fatalf("cancellation record = %+v", rec)
	}
	for _, viewer := range []string{"A1", "A2", "U1"} {
		if got := DeriveStatus(cancelled, viewer); got != models.StatusCancelled {
			t.Fatalf("%s sees %s after cancel", viewer, got)
		}
	}

	want := []string{models.EventBookingAssigned, models.EventBookingConfirmed, models.EventBookingCancelled}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if pub.events[2].Reason != "no longer available" || pub.events[2].State != models.StateCancelled {
		t.Fatalf("cancel event = %+v", pub.events[2])
	}
}

func TestAssignRules(t *testing.T) {
	store, pub := newTestStore(t,
		models.Booking{ID: "open", UserID: "U1"},
		models.Booking{ID: "taken", UserID: "U1", AdminID: "A2"},
		models.Booking{ID: "dead", UserID: "U1", CancelledBy: []models.CancellationRecord{{ActorID: "U1", Reason: "x"}}},
	)
	ctx := context.Background()

	if _, err := store.Assign(ctx, "missing", "A1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := store.Assign(ctx, "taken", "A1"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("taken: %v", err)
	}
	if _, err := store.Assign(ctx, "dead", "A1"); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("dead: %v", err)
	}

	first, err := store.Assign(ctx, "open", "A1")
	if err != nil {
		t.Fatal(err)
	}
	again, err := store.Assign(ctx, "open", "A1")
	if err != nil {
		t.Fatalf("re-assign to same admin: %v", err)
	}
	if again.Version != first.Version {
		t.Fatalf("no-op assign bumped version %d -> %d", first.Version, again.Version)
	}
	if n := len(pub.types()); n != 1 {
		t.Fatalf("expected one event, got %d", n)
	}
}

func TestConcurrentAssignHasOneWinner(t *testing.T) {
	for round := 0; round < 20; round++ {
		store, _ := newTestStore(t, models.Booking{ID: "B1", UserID: "U1"})
		ctx := context.Background()

		admins := []string{"A1", "A2", "A3", "A4"}
		errs := make([]error, len(admins))
		var wg sync.WaitGroup
		for i, admin := range admins {
			wg.Add(1)
			go func(i int, admin string) {
				defer wg.Done()
				_, errs[i] = store.Assign(ctx, "B1", admin)
			}(i, admin)
		}
		wg.Wait()

		winners := 0
		for i, err := range errs {
			switch {
			case err == nil:
				winners++
			case errors.Is(err, ErrAlreadyAssigned):
			default:
				t.Fatalf("round %d admin %s: unexpected error %v", round, admins[i], err)
			}
		}
		if winners != 1 {
			t.Fatalf("round %d: %d winners", round, winners)
		}

		b, _ := store.Get(ctx, "B1")
		if b.Version != 2 {
			t.Fatalf("round %d: version %d, want 2", round, b.Version)
		}
	}
}

// readBarrierRepo holds the first n reads until all of them arrived, so
// concurrent callers are guaranteed to start from the same record.
type readBarrierRepo struct {
	*bookingRepo.MemoryBookingRepo
	n       int32
	reads   atomic.Int32
	arrived sync.WaitGroup
}

func newReadBarrierRepo(n int) *readBarrierRepo {
	r := &readBarrierRepo{MemoryBookingRepo: bookingRepo.NewMemoryBookingRepo(), n: int32(n)}
	r.arrived.Add(n)
	return r
}

func (r *readBarrierRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if r.reads.Add(1) <= r.n {
		r.arrived.Done()
		r.arrived.Wait()
	}
	return r.MemoryBookingRepo.GetByID(ctx, id)
}

func TestConcurrentConfirmLoserSeesAlreadyAssigned(t *testing.T) {
	for round := 0; round < 20; round++ {
		admins := []string{"A1", "A2"}
		repo := newReadBarrierRepo(len(admins))
		ctx := context.Background()
		if err := repo.Insert(ctx, &models.Booking{ID: "B1", UserID: "U1", Version: 1, CreatedAt: testNow}); err != nil {
			t.Fatal(err)
		}
		store := NewDefaultBookingStore(repo, nil)

		errs := make([]error, len(admins))
		var wg sync.WaitGroup
		for i, admin := range admins {
			wg.Add(1)
			go func(i int, admin string) {
				defer wg.Done()
				_, errs[i] = store.Confirm(ctx, "B1", admin)
			}(i, admin)
		}
		wg.Wait()

		winners := 0
		for i, err := range errs {
			switch {
			case err == nil:
				winners++
			case errors.Is(err, ErrAlreadyAssigned):
			default:
				t.Fatalf("round %d admin %s: got %v, want AlreadyAssigned", round, admins[i], err)
			}
		}
		if winners != 1 {
			t.Fatalf("round %d: %d winners", round, winners)
		}

		// Arriving after the race, the booking is plainly someone else's.
		b, _ := store.Get(ctx, "B1")
		other := "A1"
		if b.AdminID == "A1" {
			other = "A2"
		}
		if _, err := store.Confirm(ctx, "B1", other); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("round %d late confirm: %v", round, err)
		}
	}
}

func TestConfirmRules(t *testing.T) {
	store, _ := newTestStore(t,
		models.Booking{ID: "open", UserID: "U1"},
		models.Booking{ID: "other", UserID: "U1", AdminID: "A2"},
		models.Booking{ID: "dead", UserID: "U1", AdminID: "A1", CancelledBy: []models.CancellationRecord{{ActorID: "A1", Reason: "x"}}},
	)
	ctx := context.Background()

	if _, err := store.Confirm(ctx, "missing", "A1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := store.Confirm(ctx, "other", "A1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("other: %v", err)
	}
	if _, err := store.Confirm(ctx, "dead", "A1"); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("dead: %v", err)
	}

	b, err := store.Confirm(ctx, "open", "A1")
	if err != nil {
		t.Fatalf("implicit assign+confirm: %v", err)
	}
	if b.AdminID != "A1" || !b.ConfirmBooking || b.Version != 2 {
		t.Fatalf("after confirm: %+v", b)
	}
}

func TestCancelRules(t *testing.T) {
	store, pub := newTestStore(t, models.Booking{ID: "B1", UserID: "U1", AdminID: "A1", ConfirmBooking: true})
	ctx := context.Background()

	if _, err := store.Cancel(ctx, "B1", "A1", "   "); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("blank reason: %v", err)
	}
	if _, err := store.Cancel(ctx, "missing", "A1", "why"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if len(pub.types()) != 0 {
		t.Fatal("rejected cancels must not publish")
	}

	if _, err := store.Cancel(ctx, "B1", "A1", "first"); err != nil {
		t.Fatal(err)
	}
	b, err := store.Cancel(ctx, "B1", "U1", "second")
	if err != nil {
		t.Fatalf("re-cancel: %v", err)
	}
	if len(b.CancelledBy) != 2 || b.CancelledBy[1].Reason != "second" {
		t.Fatalf("cancelledBy = %+v", b.CancelledBy)
	}
	if Lifecycle(b) != models.StateCancelled {
		t.Fatalf("state = %s", Lifecycle(b))
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store, pub := newTestStore(t, models.Booking{ID: "B1", UserID: "U1"})
	pub.err = errors.New("broker down")

	b, err := store.Assign(context.Background(), "B1", "A1")
	if err != nil {
		t.Fatalf("assign failed because of publisher: %v", err)
	}
	stored, _ := store.Get(context.Background(), "B1")
	if stored.AdminID != "A1" || stored.Version != b.Version {
		t.Fatalf("mutation not committed: %+v", stored)
	}
}

func TestCreateValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	bad := []models.NewBookingInput{
		{BookingDetails: models.BookingDetails{ServiceName: "Plumber"}},
		{UserID: "U1"},
		{UserID: "U1", BookingDetails: models.BookingDetails{ServiceName: "Plumber"}, Payment: models.Payment{Amount: -1}},
	}
	for i, in := range bad {
		if _, err := store.Create(ctx, in); !errors.Is(err, ErrInvalidBooking) {
			t.Fatalf("case %d: expected ErrInvalidBooking, got %v", i, err)
		}
	}

	b, err := store.Create(ctx, models.NewBookingInput{
		UserID:         "U1",
		BookingDetails: models.BookingDetails{ServiceName: "Plumber", DateBooked: "2024-05-02", TimeSlot: "10:00"},
		Payment:        models.Payment{Amount: 499},
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == "" || b.Version != 1 || b.IsAssigned() || b.IsCancelled() || b.CancelledBy == nil {
		t.Fatalf("new booking = %+v", b)
	}
	if Lifecycle(b) != models.StateUnassigned {
		t.Fatalf("state = %s", Lifecycle(b))
	}
}

// conflictRepo loses the first n conditional writes to a simulated rival.
type conflictRepo struct {
	*bookingRepo.MemoryBookingRepo
	mu    sync.Mutex
	rival func(ctx context.Context)
	n     int
}

func (r *conflictRepo) ReplaceIfVersion(ctx context.Context, b *models.Booking, expected int64) error {
	r.mu.Lock()
	if r.n > 0 {
		r.n--
		r.mu.Unlock()
		r.rival(ctx)
		return r.MemoryBookingRepo.ReplaceIfVersion(ctx, b, expected)
	}
	r.mu.Unlock()
	return r.MemoryBookingRepo.ReplaceIfVersion(ctx, b, expected)
}

func TestConflictReevaluatesAgainstFreshRecord(t *testing.T) {
	mem := bookingRepo.NewMemoryBookingRepo()
	ctx := context.Background()
	_ = mem.Insert(ctx, &models.Booking{ID: "B1", UserID: "U1", Version: 1, CreatedAt: testNow})

	repo := &conflictRepo{MemoryBookingRepo: mem, n: 1}
	repo.rival = func(ctx context.Context) {
		cur, _ := mem.GetByID(ctx, "B1")
		next := cur.Clone()
		next.AdminID = "A2"
		next.Version = cur.Version + 1
		_ = mem.ReplaceIfVersion(ctx, next, cur.Version)
	}

	store := NewDefaultBookingStore(repo, nil)
	if _, err := store.Assign(ctx, "B1", "A1"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected loser to see ErrAlreadyAssigned, got %v", err)
	}
	b, _ := store.Get(ctx, "B1")
	if b.AdminID != "A2" {
		t.Fatalf("winner overwritten: %+v", b)
	}
}
