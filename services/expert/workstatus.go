package expert

import (
	"context"
	"errors"
	"fmt"
	"time"

	expertRepo "equipass/database/repository/expert"
	recordRepo "equipass/database/repository/servicerecord"
	"equipass/models"
	"equipass/utils"

	"go.uber.org/zap"
)

// DefaultWorkStatusService is the production implementation.
type DefaultWorkStatusService struct {
	Repo       expertRepo.ExpertRepository
	RecordRepo recordRepo.ServiceRecordRepository
}

func (s *DefaultWorkStatusService) getExpert(expertID string) (*models.Expert, error) {
	exp, err := s.Repo.GetByID(expertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrNotFound) {
			return nil, NotFoundError{ID: expertID}
		}
		return nil, fmt.Errorf("failed to load expert %s: %w", expertID, err)
	}
	return exp, nil
}

// OnAssignment books an available expert. Experts already BOOKED or
// IN_SERVICE keep their state and counter untouched, which makes repeated
// assignment calls idempotent.
func (s *DefaultWorkStatusService) OnAssignment(ctx context.Context, expertID string) error {
	exp, err := s.getExpert(expertID)
	if err != nil {
		return err
	}

	if exp.WorkStatus != models.WorkStatusIdle && exp.WorkStatus != models.WorkStatusRushing {
		return nil
	}

	exp.WorkStatus = models.WorkStatusBooked
	exp.RushingStartedAt = nil
	exp.ActiveServiceCount++
	exp.UpdatedAt = time.Now()

	if err := s.Repo.Update(exp); err != nil {
		return fmt.Errorf("failed to book expert %s: %w", expertID, err)
	}
	utils.GetLogger().Debug("expert booked",
		zap.String("expertId", expertID),
		zap.Int("activeServiceCount", exp.ActiveServiceCount))
	return nil
}

// RestoreAfterService runs after a record leaves the active set. It always
// re-derives availability from the remaining active records, overwriting a
// manually set OFF_DUTY or RUSHING state.
func (s *DefaultWorkStatusService) RestoreAfterService(ctx context.Context, expertID string) error {
	exp, err := s.getExpert(expertID)
	if err != nil {
		return err
	}

	if exp.ActiveServiceCount > 0 {
		exp.ActiveServiceCount--
	}

	active, err := s.RecordRepo.CountActiveByExpert(expertID)
	if err != nil {
		return fmt.Errorf("failed to count active records for expert %s: %w", expertID, err)
	}
	if active > 0 {
		exp.WorkStatus = models.WorkStatusBooked
	} else {
		exp.WorkStatus = models.WorkStatusIdle
	}
	exp.RushingStartedAt = nil
	exp.UpdatedAt = time.Now()

	if err := s.Repo.Update(exp); err != nil {
		return fmt.Errorf("failed to restore work status for expert %s: %w", expertID, err)
	}
	return nil
}

// MarkInService flags the expert as actively working on a record.
func (s *DefaultWorkStatusService) MarkInService(ctx context.Context, expertID string) error {
	exp, err := s.getExpert(expertID)
	if err != nil {
		return err
	}
	exp.WorkStatus = models.WorkStatusInService
	exp.UpdatedAt = time.Now()
	if err := s.Repo.Update(exp); err != nil {
		return fmt.Errorf("failed to mark expert %s in service: %w", expertID, err)
	}
	return nil
}

// SetWorkStatus applies a manual availability toggle. BOOKED and IN_SERVICE
// are derived states and cannot be set directly. Completing or cancelling a
// service resets a manual toggle (see RestoreAfterService).
func (s *DefaultWorkStatusService) SetWorkStatus(ctx context.Context, expertID string, status models.ExpertWorkStatus) (*models.Expert, error) {
	switch status {
	case models.WorkStatusIdle, models.WorkStatusRushing, models.WorkStatusOffDuty:
	default:
		return nil, ValidationError{Message: fmt.Sprintf("work status %s cannot be set manually", status)}
	}

	exp, err := s.getExpert(expertID)
	if err != nil {
		return nil, err
	}

	exp.WorkStatus = status
	if status == models.WorkStatusRushing {
		now := time.Now()
		exp.RushingStartedAt = &now
	} else {
		exp.RushingStartedAt = nil
	}
	exp.UpdatedAt = time.Now()

	if err := s.Repo.Update(exp); err != nil {
		return nil, fmt.Errorf("failed to set work status for expert %s: %w", expertID, err)
	}
	return exp, nil
}

func (s *DefaultWorkStatusService) GetExpert(ctx context.Context, expertID string) (*models.Expert, error) {
	return s.getExpert(expertID)
}

func (s *DefaultWorkStatusService) ListExperts(ctx context.Context, criteria expertRepo.ExpertSearchCriteria) ([]models.Expert, error) {
	return s.Repo.List(criteria)
}
