package recordRepo

import (
	"errors"

	"equipass/models"
)

// ErrNotFound is returned when no service record matches the lookup.
var ErrNotFound = errors.New("service record not found")

// ServiceRecordRepository defines methods for service record data access.
type ServiceRecordRepository interface {
	// GetByID retrieves a service record by its unique ID.
	GetByID(id string) (*models.ServiceRecord, error)
	// GetByRequestAndExpert retrieves the record for a (request, expert)
	// pair; at most one exists.
	GetByRequestAndExpert(serviceRequestID, expertID string) (*models.ServiceRecord, error)
	// Create inserts a new service record.
	Create(record *models.ServiceRecord) error
	// Update replaces an existing service record.
	Update(record *models.ServiceRecord) error
	// FindByExpert returns an expert's records, newest first, optionally
	// filtered by status.
	FindByExpert(expertID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error)
	// FindByCustomer returns a customer's records, newest first, optionally
	// filtered by status.
	FindByCustomer(customerUserID string, status *models.ServiceRecordStatus, limit int64) ([]models.ServiceRecord, error)
	// CountActiveByExpert counts an expert's PENDING and IN_PROGRESS records.
	CountActiveByExpert(expertID string) (int64, error)
	// NextSequence returns the next value of the per-month record code
	// counter identified by monthKey.
	NextSequence(monthKey string) (int64, error)
}
