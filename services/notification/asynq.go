package notification

import (
	"context"
	"fmt"

	"providerhub/models"
	"providerhub/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqPublisher enqueues every event as a booking:lifecycle task.
type AsynqPublisher struct {
	client *asynq.Client
}

func NewAsynqPublisher(opt asynq.RedisClientOpt) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(opt)}
}

func (p *AsynqPublisher) Publish(ctx context.Context, event models.LifecycleEvent) error {
	task, opts, err := tasks.NewLifecycleTask(event)
	if err != nil {
		return fmt.Errorf("build lifecycle task: %w", err)
	}
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue lifecycle task %s: %w", event.ID, err)
	}
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
