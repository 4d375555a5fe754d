package cron

import (
	"context"
	"fmt"
	"time"

	"providerhub/config"
	eventRepo "providerhub/database/repository/events"
	"providerhub/services/tasks"
	"providerhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitEventWorker consumes booking:lifecycle tasks in the background and
// records each event in the booking audit trail. The returned server must
// be shut down by the caller.
func InitEventWorker(events eventRepo.EventRepository) *asynq.Server {
	logger := utils.GetLogger()
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueEvents: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingLifecycle, handleLifecycleTask(events))

	go func() {
		logger.Info("starting lifecycle event worker")
		backoff := func(attempt int) time.Duration { return time.Duration(attempt*2) * time.Second }
		if err := startWithRetry(srv, mux, 5, backoff); err != nil {
			logger.Error("event worker gave up; lifecycle tasks will queue until restart", zap.Error(err))
		}
	}()
	return srv
}

// workerStarter is the part of *asynq.Server used to bring the worker up.
type workerStarter interface {
	Start(handler asynq.Handler) error
}

// startWithRetry starts the worker without installing signal handling, so
// shutdown stays with the caller. It retries up to maxAttempts times.
func startWithRetry(srv workerStarter, handler asynq.Handler, maxAttempts int, backoff func(attempt int) time.Duration) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = srv.Start(handler); err == nil {
			return nil
		}
		utils.GetLogger().Error("event worker failed to start",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempt < maxAttempts {
			time.Sleep(backoff(attempt))
		}
	}
	return fmt.Errorf("start event worker after %d attempts: %w", maxAttempts, err)
}

func handleLifecycleTask(events eventRepo.EventRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseLifecycleTask(task)
		if err != nil {
			// A payload that cannot be decoded will never succeed.
			return fmt.Errorf("decode lifecycle task: %v: %w", err, asynq.SkipRetry)
		}
		if err := events.Append(ctx, event); err != nil {
			utils.GetLogger().Warn("failed to record lifecycle event",
				zap.String("eventId", event.ID), zap.Error(err))
			return err
		}
		return nil
	}
}
