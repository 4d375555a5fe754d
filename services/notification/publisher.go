package notification

import (
	"fmt"

	"providerhub/config"

	"github.com/hibiken/asynq"
)

// NewPublisher builds the publisher named by EVENTS_BACKEND.
func NewPublisher(cfg config.Config) (Publisher, error) {
	switch cfg.EventsBackend {
	case "", "log":
		return NewLogPublisher(), nil
	case "asynq":
		return NewAsynqPublisher(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisEventQDB,
		}), nil
	case "amqp":
		return NewAMQPPublisher(cfg.RabbitURL, cfg.BookingExchange)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
	}
}
