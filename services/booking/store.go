package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "providerhub/database/repository/booking"
	"providerhub/models"
	"providerhub/services/notification"
	"providerhub/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 5

var tracer = otel.Tracer("providerhub/services/booking")

// DefaultBookingStore implements BookingStore on a BookingRepository.
// Every transition is a compare-and-set on the booking version; a lost race
// reloads the record and evaluates the transition again.
type DefaultBookingStore struct {
	Repo      bookingRepo.BookingRepository
	Publisher notification.Publisher
	// Clock defaults to time.Now.
	Clock func() time.Time
	// MaxAttempts bounds reloads after version conflicts.
	MaxAttempts int
}

func NewDefaultBookingStore(repo bookingRepo.BookingRepository, publisher notification.Publisher) *DefaultBookingStore {
	return &DefaultBookingStore{Repo: repo, Publisher: publisher, MaxAttempts: defaultMaxAttempts}
}

func (s *DefaultBookingStore) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// transition mutates b in place and returns the event type to publish, or
// "" when b already satisfies the request.
type transition func(b *models.Booking) (string, error)

func (s *DefaultBookingStore) Create(ctx context.Context, input models.NewBookingInput) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.Create")
	defer span.End()

	switch {
	case strings.TrimSpace(input.UserID) == "":
		return nil, newError(CodeInvalidBooking, "userId is required")
	case strings.TrimSpace(input.BookingDetails.ServiceName) == "":
		return nil, newError(CodeInvalidBooking, "bookingDetails.serviceName is required")
	case input.Payment.Amount < 0:
		return nil, newError(CodeInvalidBooking, "payment.amount must not be negative")
	}

	now := s.now()
	b := &models.Booking{
		ID:             uuid.NewString(),
		UserID:         strings.TrimSpace(input.UserID),
		BookingDetails: input.BookingDetails,
		Payment:        input.Payment,
		CancelledBy:    []models.CancellationRecord{},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Insert(ctx, b); err != nil {
		fail(span, err)
		return nil, fmt.Errorf("create booking: %w", err)
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))
	return b, nil
}

func (s *DefaultBookingStore) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, newError(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	return b, nil
}

// Assign gives an unassigned booking to adminID without confirming it.
func (s *DefaultBookingStore) Assign(ctx context.Context, bookingID, adminID string) (*models.Booking, error) {
	if strings.TrimSpace(adminID) == "" {
		return nil, ErrUnauthorized
	}
	return s.mutate(ctx, "booking.Assign", bookingID, adminID, "", func(b *models.Booking) (string, error) {
		switch {
		case b.IsCancelled():
			return "", newError(CodeAlreadyCancelled, "booking %s is cancelled", b.ID)
		case b.AdminID == adminID:
			return "", nil
		case b.IsAssigned():
			return "", newError(CodeAlreadyAssigned, "booking %s is assigned to another admin", b.ID)
		}
		b.AdminID = adminID
		b.ConfirmBooking = false
		return models.EventBookingAssigned, nil
	})
}

// Confirm marks the booking confirmed by adminID, taking it first when it
// is still unassigned. A caller who first saw the booking unassigned and
// lost it to another admin gets AlreadyAssigned; a booking that was already
// someone else's gives Unauthorized.
func (s *DefaultBookingStore) Confirm(ctx context.Context, bookingID, adminID string) (*models.Booking, error) {
	if strings.TrimSpace(adminID) == "" {
		return nil, ErrUnauthorized
	}
	firstRead, sawUnassigned := true, false
	return s.mutate(ctx, "booking.Confirm", bookingID, adminID, "", func(b *models.Booking) (string, error) {
		if firstRead {
			firstRead, sawUnassigned = false, !b.IsAssigned()
		}
		switch {
		case b.IsCancelled():
			return "", newError(CodeAlreadyCancelled, "booking %s is cancelled", b.ID)
		case b.IsAssigned() && b.AdminID != adminID && sawUnassigned:
			return "", newError(CodeAlreadyAssigned, "booking %s was taken by another admin", b.ID)
		case b.IsAssigned() && b.AdminID != adminID:
			return "", newError(CodeUnauthorized, "booking %s is assigned to another admin", b.ID)
		case b.ConfirmBooking:
			return "", nil
		}
		b.AdminID = adminID
		b.ConfirmBooking = true
		return models.EventBookingConfirmed, nil
	})
}

// Cancel appends a cancellation record. Cancelling again appends another.
func (s *DefaultBookingStore) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, ErrUnauthorized
	}
	return s.mutate(ctx, "booking.Cancel", bookingID, actorID, reason, func(b *models.Booking) (string, error) {
		b.CancelledBy = append(b.CancelledBy, models.CancellationRecord{
			ActorID:   actorID,
			Reason:    reason,
			Timestamp: s.now(),
		})
		return models.EventBookingCancelled, nil
	})
}

func (s *DefaultBookingStore) mutate(ctx context.Context, op, bookingID, actorID, reason string, fn transition) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("actor.id", actorID),
	))
	defer span.End()

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		current, err := s.Get(ctx, bookingID)
		if err != nil {
			fail(span, err)
			return nil, err
		}

		next := current.Clone()
		eventType, err := fn(next)
		if err != nil {
			fail(span, err)
			return nil, err
		}
		if eventType == "" {
			return current, nil
		}

		next.Version = current.Version + 1
		next.UpdatedAt = s.now()
		err = s.Repo.ReplaceIfVersion(ctx, next, current.Version)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Int("booking.attempts", attempt))
			s.publish(ctx, eventType, next, actorID, reason)
			return next, nil
		case errors.Is(err, bookingRepo.ErrVersionConflict):
			utils.GetLogger().Debug("booking version conflict, reloading",
				zap.String("op", op), zap.String("bookingId", bookingID), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, newError(CodeNotFound, "booking %s not found", bookingID)
		default:
			fail(span, err)
			return nil, fmt.Errorf("%s %s: %w", op, bookingID, err)
		}
	}

	fail(span, ErrConflict)
	return nil, newError(CodeConflict, "booking %s changed %d times while updating", bookingID, attempts)
}

// publish hands the event to the publisher after the write has committed.
// Failures are logged only; the mutation already happened.
func (s *DefaultBookingStore) publish(ctx context.Context, eventType string, b *models.Booking, actorID, reason string) {
	if s.Publisher == nil {
		return
	}
	event := models.LifecycleEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		AdminID:    b.AdminID,
		ActorID:    actorID,
		Reason:     reason,
		State:      Lifecycle(b),
		OccurredAt: b.UpdatedAt,
	}
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		utils.GetLogger().Error("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("bookingId", b.ID),
			zap.Error(err))
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
