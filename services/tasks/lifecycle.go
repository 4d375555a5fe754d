package tasks

import (
	"encoding/json"
	"time"

	"providerhub/models"

	"github.com/hibiken/asynq"
)

const TypeBookingLifecycle = "booking:lifecycle"

// QueueEvents is the asynq queue lifecycle tasks are enqueued on.
const QueueEvents = "events"

func NewLifecycleTask(event models.LifecycleEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingLifecycle, b)
	opts := []asynq.Option{
		asynq.Queue(QueueEvents),
		asynq.MaxRetry(10),
		asynq.TaskID(event.ID),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParseLifecycleTask decodes the payload written by NewLifecycleTask.
func ParseLifecycleTask(task *asynq.Task) (models.LifecycleEvent, error) {
	var event models.LifecycleEvent
	err := json.Unmarshal(task.Payload(), &event)
	return event, err
}
