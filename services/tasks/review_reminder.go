package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"equipass/config"
	"equipass/models"

	"github.com/hibiken/asynq"
)

const TypeReviewRequest = "review:request"

// ReviewRequestPayload is the task body for a delayed review nudge.
type ReviewRequestPayload struct {
	RecordID       string `json:"recordId"`
	RecordCode     string `json:"recordCode"`
	CustomerUserID string `json:"customerUserId"`
	ExpertID       string `json:"expertId"`
	Title          string `json:"title"`
}

// NewReviewRequestTask builds the asynq task scheduled at fireAt.
func NewReviewRequestTask(payload ReviewRequestPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReviewRequest, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// Scheduler enqueues review-request tasks onto the reminder queue.
type Scheduler struct {
	Client *asynq.Client
}

// NewScheduler creates an asynq client on the configured reminder queue DB.
func NewScheduler() *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &Scheduler{Client: client}
}

// ScheduleReviewRequest enqueues a nudge for the record's customer, delayed
// by the configured number of hours past confirmation.
func (s *Scheduler) ScheduleReviewRequest(ctx context.Context, record *models.ServiceRecord) error {
	delay := time.Duration(config.AppConfig.ReviewReminderDelayHours) * time.Hour
	task, opts, err := NewReviewRequestTask(ReviewRequestPayload{
		RecordID:       record.ID,
		RecordCode:     record.RecordCode,
		CustomerUserID: record.CustomerUserID,
		ExpertID:       record.ExpertID,
		Title:          record.Title,
	}, time.Now().Add(delay))
	if err != nil {
		return fmt.Errorf("failed to build review request task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue review request task: %w", err)
	}
	return nil
}
