package requestRepo

import (
	"errors"

	"equipass/models"
)

// ErrNotFound is returned when no service request matches the lookup.
var ErrNotFound = errors.New("service request not found")

// ServiceRequestRepository defines methods for service request data access.
// The request subsystem itself lives elsewhere; this core reads requests to
// snapshot their fields and writes back assignment/completion status.
type ServiceRequestRepository interface {
	// GetByID retrieves a service request by its unique ID.
	GetByID(id string) (*models.ServiceRequest, error)
	// Create inserts a new service request.
	Create(request *models.ServiceRequest) error
	// Update replaces an existing service request.
	Update(request *models.ServiceRequest) error
}
