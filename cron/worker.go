package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shortlet/config"
	notificationRepo "shortlet/database/repository/notification"
	"shortlet/models"
	"shortlet/services/notification"

	"github.com/hibiken/asynq"
)

// InitNotificationWorker runs the async notification worker in background.
// It drains the queue the dispatcher feeds and persists durable in-app
// notification documents; delivery transport is out of scope here.
func InitNotificationWorker(repo notificationRepo.NotificationRepository) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueue,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeNotificationDeliver, handleNotificationTask(repo))

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

func handleNotificationTask(repo notificationRepo.NotificationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n models.Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			log.Printf("[NotificationWorker] invalid payload: %v", err)
			return err
		}

		if err := repo.Create(ctx, &n); err != nil {
			log.Printf("[NotificationWorker] failed to persist notification %s: %v", n.ID, err)
			return err
		}
		return nil
	}
}
