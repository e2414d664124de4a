package reviewRepo

import (
	"errors"

	"equipass/models"
)

// ErrNotFound is returned when no review matches the lookup.
var ErrNotFound = errors.New("review not found")

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// GetByID retrieves a review by its unique ID.
	GetByID(id string) (*models.Review, error)
	// Create inserts a new review.
	Create(review *models.Review) error
	// Update replaces an existing review.
	Update(review *models.Review) error
	// FindPublishedByExpert returns an expert's PUBLISHED reviews, newest
	// first. A limit of 0 returns the whole set.
	FindPublishedByExpert(expertID string, limit int64) ([]models.Review, error)
	// Increment atomically adds delta to a numeric field.
	Increment(id, field string, delta int) error
}
