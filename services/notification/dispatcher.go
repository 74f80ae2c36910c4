package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"shortlet/models"

	"github.com/hibiken/asynq"
)

// TypeNotificationDeliver is the asynq task type for notification delivery.
const TypeNotificationDeliver = "notification:deliver"

// Dispatcher decouples booking/payment operations from notification
// persistence and delivery. It has an explicit lifecycle and is injected
// where it is needed; there is no package-level mutable instance.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
	Close() error
}

// AsynqDispatcher enqueues notifications onto a Redis-backed queue consumed
// by the worker in cron/worker.go.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(redisOpt asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(redisOpt)}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	task := asynq.NewTask(TypeNotificationDeliver, payload)
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
