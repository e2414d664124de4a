package expert

import (
	"context"

	expertRepo "equipass/database/repository/expert"
	"equipass/models"
)

// WorkStatusService keeps an expert's availability consistent with their
// active service records and exposes the expert directory.
type WorkStatusService interface {
	// OnAssignment marks an available expert as booked when a service
	// record is created for them. A no-op for experts already booked, in
	// service, or off duty.
	OnAssignment(ctx context.Context, expertID string) error
	// RestoreAfterService re-derives availability after a record leaves the
	// active set (completion or cancellation).
	RestoreAfterService(ctx context.Context, expertID string) error
	// MarkInService flags the expert as actively working.
	MarkInService(ctx context.Context, expertID string) error
	// SetWorkStatus applies a manual availability toggle (IDLE, RUSHING or
	// OFF_DUTY). Derived states are rejected.
	SetWorkStatus(ctx context.Context, expertID string, status models.ExpertWorkStatus) (*models.Expert, error)
	// GetExpert returns the expert's profile and work-status view.
	GetExpert(ctx context.Context, expertID string) (*models.Expert, error)
	// ListExperts returns the expert directory for the given criteria.
	ListExperts(ctx context.Context, criteria expertRepo.ExpertSearchCriteria) ([]models.Expert, error)
}
