package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"equipass/config"
	recordRepo "equipass/database/repository/servicerecord"
	"equipass/services/notification"
	"equipass/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitReviewReminderWorker runs the async worker in background.
func InitReviewReminderWorker(records recordRepo.ServiceRecordRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
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
	mux.HandleFunc(tasks.TypeReviewRequest, handleReviewRequestTask(records, notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReviewReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReviewReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReviewReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReviewRequestTask(records recordRepo.ServiceRecordRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReviewRequestPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReviewReminderHandler] invalid payload: %v", err)
			return err
		}

		record, err := records.GetByID(p.RecordID)
		if err != nil {
			return fmt.Errorf("failed to load record %s: %w", p.RecordID, err)
		}
		// The customer already reviewed in the meantime; nothing to nudge.
		if record.IsReviewed {
			return nil
		}

		data := map[string]string{
			"recordId":   p.RecordID,
			"recordCode": p.RecordCode,
		}
		body := fmt.Sprintf("How did %s go? Rate your expert to help others choose.", p.Title)
		if err := notifSvc.SendUserPushNotification(ctx, p.CustomerUserID, "Share your experience", body, data); err != nil {
			log.Printf("[ReviewReminderHandler] failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReviewReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
