package review

import (
	"context"

	"equipass/models"
)

// ReviewService owns review creation, moderation and the expert rating
// aggregates derived from the published-review set.
type ReviewService interface {
	// CreateReview publishes a customer's review of a completed record and
	// recomputes the expert's aggregates.
	CreateReview(ctx context.Context, input models.CreateReviewInput) (*models.Review, error)
	// RecomputeExpertRating refreshes avgRating and totalReviews from the
	// full published-review set. A no-op when the set is empty.
	RecomputeExpertRating(ctx context.Context, expertID string) error
	// GetExpertRatingSummary returns the aggregate view, with the rating
	// distribution and category averages computed fresh on every call.
	GetExpertRatingSummary(ctx context.Context, expertID string) (*models.RatingSummary, error)
	// GetReviewsByExpert returns an expert's published reviews, newest first.
	GetReviewsByExpert(ctx context.Context, expertID string, limit int64) ([]models.Review, error)
	// RespondToReview sets the owner-expert's write-once response.
	RespondToReview(ctx context.Context, reviewID, expertID, responseText string) (*models.Review, error)
	// FlagReview pulls a review from the published set and recomputes the
	// expert's aggregates without it.
	FlagReview(ctx context.Context, reviewID, reason, moderatorUserID string) (*models.Review, error)
	// VoteReview increments the helpful or not-helpful counter.
	VoteReview(ctx context.Context, reviewID string, isHelpful bool) (*models.Review, error)
}
