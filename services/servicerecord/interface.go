package servicerecord

import (
	"context"

	"equipass/models"
)

// ServiceRecordService owns the lifecycle of service engagements between
// customers and experts.
type ServiceRecordService interface {
	// CreateServiceRecord assigns an expert to a service request and opens
	// a PENDING record for the engagement.
	CreateServiceRecord(ctx context.Context, input models.CreateServiceRecordInput) (*models.ServiceRecord, error)
	// UpdateServiceRecord applies a partial update, running the status
	// transition gate and its side effects when the patch carries a status.
	UpdateServiceRecord(ctx context.Context, id string, patch models.ServiceRecordPatch, actingUserID string, isExpertActor bool) (*models.ServiceRecord, error)
	// ConfirmCompletion records the customer's sign-off on a completed
	// record and requests their review.
	ConfirmCompletion(ctx context.Context, recordID, customerUserID string) (*models.ServiceRecord, error)
	// GetByID returns a single record.
	GetByID(ctx context.Context, id string) (*models.ServiceRecord, error)
	// GetByExpert returns an expert's records, newest first.
	GetByExpert(ctx context.Context, expertID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error)
	// GetByCustomer returns a customer's records, newest first.
	GetByCustomer(ctx context.Context, customerUserID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error)
}

// ReviewReminderScheduler enqueues a delayed review request after the
// customer confirms completion. Implemented by the asynq task scheduler.
type ReviewReminderScheduler interface {
	ScheduleReviewRequest(ctx context.Context, record *models.ServiceRecord) error
}
