package servicerecord

import (
	"context"
	"errors"

	recordRepo "equipass/database/repository/servicerecord"
	"equipass/models"
)

func (s *DefaultServiceRecordService) GetByID(ctx context.Context, id string) (*models.ServiceRecord, error) {
	record, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, recordRepo.ErrNotFound) {
			return nil, NotFoundError{Entity: "service record", ID: id}
		}
		return nil, err
	}
	return record, nil
}

func (s *DefaultServiceRecordService) GetByExpert(ctx context.Context, expertID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	return s.Repo.FindByExpert(expertID, status, limit)
}

func (s *DefaultServiceRecordService) GetByCustomer(ctx context.Context, customerUserID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error) {
	return s.Repo.FindByCustomer(customerUserID, status, limit)
}
