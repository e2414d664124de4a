package expertRepo

import (
	"errors"

	"equipass/models"
)

// ErrNotFound is returned when no expert matches the lookup.
var ErrNotFound = errors.New("expert not found")

// ExpertSearchCriteria defines criteria for the expert directory query.
type ExpertSearchCriteria struct {
	ServiceType string
	MinRating   float64
	Limit       int64
}

// ExpertRepository defines methods for expert data access.
type ExpertRepository interface {
	// GetByID retrieves an expert by its unique ID.
	GetByID(id string) (*models.Expert, error)
	// Create inserts a new expert record.
	Create(expert *models.Expert) error
	// Update replaces an existing expert record.
	Update(expert *models.Expert) error
	// Increment atomically adds delta to a numeric field.
	Increment(id, field string, delta int) error
	// List returns experts matching the search criteria.
	List(criteria ExpertSearchCriteria) ([]models.Expert, error)
}
