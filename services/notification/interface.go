package notification

import (
	"context"

	"providerhub/models"
	"providerhub/utils"

	"go.uber.org/zap"
)

// Publisher hands committed booking lifecycle events to downstream
// consumers. Implementations must not assume the caller retries.
type Publisher interface {
	Publish(ctx context.Context, event models.LifecycleEvent) error
	Close() error
}

// LogPublisher only writes events to the application log.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: utils.GetLogger()}
}

func (p *LogPublisher) Publish(_ context.Context, event models.LifecycleEvent) error {
	p.logger.Info("booking lifecycle event",
		zap.String("type", event.Type),
		zap.String("bookingId", event.BookingID),
		zap.String("adminId", event.AdminID),
		zap.String("actorId", event.ActorID),
		zap.String("state", string(event.State)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
