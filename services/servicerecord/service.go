package servicerecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	expertRepo "equipass/database/repository/expert"
	recordRepo "equipass/database/repository/servicerecord"
	requestRepo "equipass/database/repository/servicerequest"
	"equipass/models"
	"equipass/services/expert"
	"equipass/services/notification"
	"equipass/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultServiceRecordService is the production implementation.
// Notifier and Reminder are optional; a nil value disables the concern.
type DefaultServiceRecordService struct {
	Repo        recordRepo.ServiceRecordRepository
	RequestRepo requestRepo.ServiceRequestRepository
	ExpertRepo  expertRepo.ExpertRepository
	WorkStatus  expert.WorkStatusService
	Notifier    notification.NotificationService
	Reminder    ReviewReminderScheduler
}

// nextRecordCode builds the human-readable record code. The sequence is
// scoped to the YYMM segment, so it resets each month.
func (s *DefaultServiceRecordService) nextRecordCode(now time.Time) (string, error) {
	monthKey := now.Format("0601")
	seq, err := s.Repo.NextSequence("ESR-" + monthKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ESR-%s-%06d", monthKey, seq), nil
}

func (s *DefaultServiceRecordService) CreateServiceRecord(ctx context.Context, input models.CreateServiceRecordInput) (*models.ServiceRecord, error) {
	logger := utils.GetLogger()

	request, err := s.RequestRepo.GetByID(input.ServiceRequestID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "service request", ID: input.ServiceRequestID}
		}
		return nil, err
	}
	if _, err := s.ExpertRepo.GetByID(input.ExpertID); err != nil {
		if errors.Is(err, expertRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "expert", ID: input.ExpertID}
		}
		return nil, err
	}

	if existing, err := s.Repo.GetByRequestAndExpert(input.ServiceRequestID, input.ExpertID); err == nil && existing != nil {
		return nil, ConflictError{Message: fmt.Sprintf("service record already exists for request %s and expert %s", input.ServiceRequestID, input.ExpertID)}
	} else if err != nil && !errors.Is(err, recordRepo.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	code, err := s.nextRecordCode(now)
	if err != nil {
		return nil, err
	}

	currency := input.PriceCurrency
	if currency == "" {
		currency = "EUR"
	}

	record := &models.ServiceRecord{
		ID:               uuid.New().String(),
		RecordCode:       code,
		ServiceRequestID: input.ServiceRequestID,
		ExpertID:         input.ExpertID,
		CustomerUserID:   input.CustomerUserID,
		CustomerOrgID:    input.CustomerOrgID,
		// Snapshot of the request; deliberately not kept in sync afterwards.
		ServiceType:    request.ServiceType,
		Title:          request.Title,
		Description:    request.Description,
		Location:       request.Location,
		AgreedPrice:    input.AgreedPrice,
		PriceCurrency:  currency,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		Status:         models.RecordStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(record); err != nil {
		return nil, err
	}

	if err := s.WorkStatus.OnAssignment(ctx, input.ExpertID); err != nil {
		return nil, err
	}

	request.Status = models.RequestStatusInProgress
	request.AssignedExpertID = input.ExpertID
	request.UpdatedAt = now
	if err := s.RequestRepo.Update(request); err != nil {
		return nil, err
	}

	s.notifyExpert(ctx, record, "New service assignment",
		fmt.Sprintf("You have been assigned to %s (%s)", record.Title, record.RecordCode))

	logger.Info("service record created",
		zap.String("recordId", record.ID),
		zap.String("recordCode", record.RecordCode),
		zap.String("expertId", record.ExpertID))
	return record, nil
}

func (s *DefaultServiceRecordService) UpdateServiceRecord(ctx context.Context, id string, patch models.ServiceRecordPatch, actingUserID string, isExpertActor bool) (*models.ServiceRecord, error) {
	record, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, recordRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "service record", ID: id}
		}
		return nil, err
	}

	if isExpertActor && actingUserID != record.ExpertID {
		return nil, ForbiddenError{Message: "record belongs to another expert"}
	}

	now := time.Now()
	var transitioned *models.ServiceRecordStatus
	if patch.Status != nil {
		if err := validateTransition(record.Status, *patch.Status); err != nil {
			return nil, err
		}
		record.Status = *patch.Status
		transitioned = patch.Status

		switch *patch.Status {
		case models.RecordStatusInProgress:
			if record.ActualStart == nil {
				record.ActualStart = &now
				if err := s.WorkStatus.MarkInService(ctx, record.ExpertID); err != nil {
					return nil, err
				}
			}
		case models.RecordStatusCompleted:
			record.CompletedAt = &now
			if record.ActualEnd == nil {
				if patch.ActualEnd != nil {
					record.ActualEnd = patch.ActualEnd
				} else {
					record.ActualEnd = &now
				}
			}
		case models.RecordStatusCancelled:
			record.CancelledAt = &now
			if patch.CancellationReason != nil {
				record.CancellationReason = *patch.CancellationReason
			}
			record.CancelledBy = actingUserID
		case models.RecordStatusDisputed:
			// No side effect beyond the status write.
		}
	}

	applyPatchFields(record, &patch, isExpertActor)
	record.UpdatedAt = now

	if err := s.Repo.Update(record); err != nil {
		return nil, err
	}

	if transitioned != nil {
		if err := s.runTransitionSideEffects(ctx, record, *transitioned, now); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// runTransitionSideEffects performs the cross-entity updates a transition
// implies. These writes are separate from the record write and can leave
// partial state behind if one fails; there is no compensation at this layer.
func (s *DefaultServiceRecordService) runTransitionSideEffects(ctx context.Context, record *models.ServiceRecord, to models.ServiceRecordStatus, now time.Time) error {
	switch to {
	case models.RecordStatusCompleted:
		if err := s.ExpertRepo.Increment(record.ExpertID, "completedServices", 1); err != nil {
			return err
		}
		request, err := s.RequestRepo.GetByID(record.ServiceRequestID)
		if err == nil {
			request.Status = models.RequestStatusCompleted
			request.CompletedAt = record.CompletedAt
			request.UpdatedAt = now
			if err := s.RequestRepo.Update(request); err != nil {
				return err
			}
		} else if !errors.Is(err, requestRepo.ErrNotFound) {
			return err
		}
		if err := s.WorkStatus.RestoreAfterService(ctx, record.ExpertID); err != nil {
			return err
		}
		s.notifyCustomer(ctx, record, "Service completed",
			fmt.Sprintf("%s has been completed. Please confirm and share your experience.", record.Title))
	case models.RecordStatusCancelled:
		if err := s.WorkStatus.RestoreAfterService(ctx, record.ExpertID); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultServiceRecordService) ConfirmCompletion(ctx context.Context, recordID, customerUserID string) (*models.ServiceRecord, error) {
	record, err := s.Repo.GetByID(recordID)
	if err != nil {
		if errors.Is(err, recordRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "service record", ID: recordID}
		}
		return nil, err
	}
	if record.CustomerUserID != customerUserID {
		return nil, ForbiddenError{Message: "record belongs to another customer"}
	}
	if record.Status != models.RecordStatusCompleted {
		return nil, InvalidStateError{Message: fmt.Sprintf("cannot confirm completion of a %s record", record.Status)}
	}

	now := time.Now()
	record.ConfirmedByCustomer = true
	record.ConfirmedAt = &now
	record.ReviewRequestedAt = &now
	record.UpdatedAt = now

	if err := s.Repo.Update(record); err != nil {
		return nil, err
	}

	if s.Reminder != nil {
		if err := s.Reminder.ScheduleReviewRequest(ctx, record); err != nil {
			utils.GetLogger().Warn("failed to schedule review reminder",
				zap.String("recordId", record.ID), zap.Error(err))
		}
	}
	return record, nil
}

func (s *DefaultServiceRecordService) notifyCustomer(ctx context.Context, record *models.ServiceRecord, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"recordId": record.ID, "recordCode": record.RecordCode}
	if err := s.Notifier.SendUserPushNotification(ctx, record.CustomerUserID, title, body, data); err != nil {
		utils.GetLogger().Warn("customer push failed", zap.String("recordId", record.ID), zap.Error(err))
	}
}

func (s *DefaultServiceRecordService) notifyExpert(ctx context.Context, record *models.ServiceRecord, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"recordId": record.ID, "recordCode": record.RecordCode}
	if err := s.Notifier.SendExpertPushNotification(ctx, record.ExpertID, title, body, data); err != nil {
		utils.GetLogger().Warn("expert push failed", zap.String("recordId", record.ID), zap.Error(err))
	}
}
